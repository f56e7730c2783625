package instance

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/raphi011/recents/internal/cmd"
	"github.com/raphi011/recents/internal/log"
)

// ErrLocatorNotFound is returned when the locator executable does not exist.
var ErrLocatorNotFound = errors.New("locator executable not found")

var locatorArgs = []string{"-sort", "-format", "json", "-utf8", "-prerelease"}

// Locator runs the locator executable at Path.
type Locator struct {
	Path string
}

// NewLocator returns a Locator for path.
func NewLocator(path string) *Locator {
	return &Locator{Path: path}
}

// Locate lists the installed instances. A locator that fails to run or
// prints unusable output yields no instances and no error.
func (l *Locator) Locate(ctx context.Context) ([]Instance, error) {
	if _, err := exec.LookPath(l.Path); err != nil {
		return nil, fmt.Errorf("%w: %s (set locator_path in the config file or RECENTS_LOCATOR)", ErrLocatorNotFound, l.Path)
	}

	out, err := cmd.OutputContext(ctx, "", l.Path, locatorArgs...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrLocatorNotFound, l.Path)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.FromContext(ctx).Debug("locator failed", "path", l.Path, "err", err)
		return nil, nil
	}

	instances := Parse(out)
	log.FromContext(ctx).Debug("located instances", "count", len(instances))
	return instances, nil
}
