// Package backend selects a geometry kernel by name.
package backend

import (
	"fmt"

	"github.com/mattlean/gridnik/pkg/kernel"
	"github.com/mattlean/gridnik/pkg/kernel/manifold"
	"github.com/mattlean/gridnik/pkg/kernel/sdfx"
)

// Kernel names accepted by New.
const (
	SDFX     = "sdfx"
	Manifold = "manifold"
)

// Names lists every kernel in preference order.
var Names = []string{SDFX, Manifold}

// New returns the named kernel. cells sets the sdfx mesh resolution and is
// ignored by manifold.
func New(name string, cells int) (kernel.Kernel, error) {
	switch name {
	case SDFX, "":
		return sdfx.New(cells), nil
	case Manifold:
		return manifold.New()
	}
	return nil, fmt.Errorf("unknown kernel %q", name)
}
