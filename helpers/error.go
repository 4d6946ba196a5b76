package helpers

import (
	"strings"

	"github.com/juju/errors"
)

// FoldErrors flattens a batch of init/validation errors into one.
// nil entries are skipped, an all-nil batch folds to nil.
func FoldErrors(errs []error) error {
	ss := make([]string, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			ss = append(ss, e.Error())
		}
	}
	if len(ss) == 0 {
		return nil
	}
	// not Errorf: config errors may carry % characters
	return errors.New(strings.Join(ss, "\n"))
}
