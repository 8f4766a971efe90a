package ops

import (
	"github.com/sonce/newsctl/internal/config"
)

// ValidateOutput contains the result of a batch validation run.
type ValidateOutput struct {
	Reports  []FileReport `json:"reports,omitempty"`
	Indexed  int          `json:"indexed"`
	Errors   int          `json:"errors"`
	Warnings int          `json:"warnings"`
}

// ValidateAll validates every unit in the content directory and, as a
// side effect, rewrites the index so it reflects the directory as scanned.
// Warnings never affect the caller's exit status; hard errors do.
func ValidateAll(cfg *config.Config, paths config.Paths) (*ValidateOutput, error) {
	build, err := BuildIndex(cfg, paths)
	if err != nil {
		return nil, err
	}
	return &ValidateOutput{
		Reports:  build.Reports,
		Indexed:  build.Indexed,
		Errors:   CountErrors(build.Reports),
		Warnings: CountWarnings(build.Reports),
	}, nil
}
