package core

import (
	"go/types"
	"path/filepath"
	"runtime"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestCollectionStoreImplementationsHardening ensures only sanctioned
// persistence packages provide concrete implementations of the
// domain.CollectionStore interface. This guards architectural drift from
// introducing additional backends outside the vetted locations
// (memory + sqlite + postgres) without an explicit test update.
func TestCollectionStoreImplementationsHardening(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes, Tests: true}
	pkgs, err := packages.Load(cfg, "gymcore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	var collectionStore *types.Interface
	for _, p := range pkgs {
		if p.PkgPath == "gymcore/pkg/domain" {
			obj := p.Types.Scope().Lookup("CollectionStore")
			if obj == nil {
				t.Fatalf("domain.CollectionStore not found")
			}
			iface, ok := obj.Type().Underlying().(*types.Interface)
			if !ok {
				t.Fatalf("domain.CollectionStore is not an interface")
			}
			collectionStore = iface
		}
	}
	if collectionStore == nil {
		t.Fatalf("failed to resolve CollectionStore interface")
	}
	allowed := map[string]struct{}{
		"gymcore/internal/infra/persistence/memory":   {},
		"gymcore/internal/infra/persistence/sqlite":   {},
		"gymcore/internal/infra/persistence/postgres": {},
		"gymcore/internal/core":                       {}, // test stubs wrap stores here
	}
	var unexpected []string
	for _, p := range pkgs {
		if p.Types == nil || p.Types.Scope() == nil {
			continue
		}
		for _, name := range p.Types.Scope().Names() {
			obj := p.Types.Scope().Lookup(name)
			named, ok := obj.Type().(*types.Named)
			if !ok {
				continue
			}
			st, ok := named.Underlying().(*types.Struct)
			if !ok || st.NumFields() == 0 && named.NumMethods() == 0 {
				continue
			}
			if types.Implements(types.NewPointer(named), collectionStore) {
				if _, ok := allowed[p.PkgPath]; !ok {
					unexpected = append(unexpected, p.PkgPath+"."+name)
				}
			}
		}
	}
	if len(unexpected) > 0 {
		_, file, line, _ := runtime.Caller(0)
		t.Fatalf("unexpected CollectionStore implementations (update allowed list intentionally if adding a new backend):\nfile=%s:%d\n%s", filepath.Base(file), line, unexpected)
	}
}
