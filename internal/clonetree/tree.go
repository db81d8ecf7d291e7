// Package clonetree is a fixture declaration graph: seven cloned files,
// each declaring six classes of which three carry marked activity
// methods with two marked methods apiece. The layout mirrors a small
// package tree with nested directories, a sibling file, aliases and
// assorted non-class members.
package clonetree

import (
	"time"

	"github.com/yungbote/temporalguard/catalog"
	"github.com/yungbote/temporalguard/internal/clonetree/badclone"
	"github.com/yungbote/temporalguard/internal/clonetree/clone0"
	"github.com/yungbote/temporalguard/internal/clonetree/clone1"
	"github.com/yungbote/temporalguard/internal/clonetree/dirone/clone2"
	"github.com/yungbote/temporalguard/internal/clonetree/dirone/clone3"
	"github.com/yungbote/temporalguard/internal/clonetree/dirtwo/subdir/clone4"
	"github.com/yungbote/temporalguard/internal/clonetree/dirtwo/subdir/clone5"
	"github.com/yungbote/temporalguard/internal/clonetree/siblingclone"
)

const rootPath = "github.com/yungbote/temporalguard/internal/clonetree"

// NewTree builds the well-formed seven-file graph.
func NewTree() *catalog.Module {
	root := catalog.New(rootPath)

	root.Mount(catalog.New(rootPath + "/clone0").Declare(clone0.Declarations()...))
	root.Mount(catalog.New(rootPath + "/clone1").Declare(clone1.Declarations()...))

	dirOne := catalog.New(rootPath + "/dirone")
	dirOne.Mount(catalog.New(rootPath + "/dirone/clone2").Declare(clone2.Declarations()...))
	dirOne.Mount(catalog.New(rootPath + "/dirone/clone3").Declare(clone3.Declarations()...))
	root.Mount(dirOne)

	dirTwo := catalog.New(rootPath + "/dirtwo")
	subDir := catalog.New(rootPath + "/dirtwo/subdir")
	subDir.Mount(catalog.New(rootPath + "/dirtwo/subdir/clone4").Declare(clone4.Declarations()...))
	subDir.Mount(catalog.New(rootPath + "/dirtwo/subdir/clone5").Declare(clone5.Declarations()...))
	dirTwo.Mount(subDir)
	root.Mount(dirTwo)

	sibling := catalog.New(rootPath + "/siblingclone").Declare(siblingclone.Declarations()...)
	// An alias of an already-declared class and a plain function member:
	// neither may change what collection finds.
	sibling.Add("LegacyData", clone0.NewDataService())
	sibling.Add("NewDataService", clone0.NewDataService)
	root.Mount(sibling)

	root.Add("TreeVersion", 7)
	root.Add("PlantedAt", time.Time{})
	root.Mount(catalog.New("example.com/vendored/metrics"))

	return root
}

// NewBrokenTree is NewTree plus one file whose class omits the default
// call options for one of its marked methods.
func NewBrokenTree() *catalog.Module {
	root := NewTree()
	root.Mount(catalog.New(rootPath + "/badclone").Declare(badclone.Declarations()...))
	return root
}

// NewCyclicTree is NewTree with a back edge: a nested module mounts the
// root again, the shape of a package importing its own ancestor.
func NewCyclicTree() *catalog.Module {
	root := NewTree()
	loop := catalog.New(rootPath + "/loop")
	loop.Mount(root)
	root.Mount(loop)
	return root
}
