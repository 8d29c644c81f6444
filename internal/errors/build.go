package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/trellis-dev/trellis/pkg/router"
)

// WrapBuild maps route build failures onto their registered codes so
// the CLI and dev server can present them with hints and doc links.
// The router package never imports this layer; the mapping runs at the
// presentation boundary. Errors that are not build errors pass through
// unchanged.
func WrapBuild(err error) error {
	if err == nil {
		return nil
	}
	var te *TrellisError
	if stderrors.As(err, &te) {
		return te
	}

	var build *router.BuildError
	if stderrors.As(err, &build) && len(build.Errs) > 1 {
		return New("T004").
			WithDetail(fmt.Sprintf("%d problems found", len(build.Errs)) + "\n" + build.Error()).
			Wrap(err)
	}

	var malformed *router.MalformedPatternError
	if stderrors.As(err, &malformed) {
		return New("T001").WithDetail(malformed.Error()).Wrap(err)
	}

	var duplicate *router.DuplicateRouteError
	if stderrors.As(err, &duplicate) {
		return New("T002").WithDetail(duplicate.Error()).Wrap(err)
	}

	var orphan *router.OrphanLayoutError
	if stderrors.As(err, &orphan) {
		return New("T003").WithDetail(orphan.Error()).Wrap(err)
	}

	return err
}
