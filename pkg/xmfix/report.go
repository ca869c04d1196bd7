package xmfix

import (
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// Result records the outcome of fixing a single input file.
type Result struct {
	Source string // Input file the fix was attempted on
	Target string // Path of the rebuilt archive, empty on failure
	Err    error  // Failure cause, nil on success
}

// Report aggregates the outcomes of a batch run.
type Report struct {
	Fixed  []Result
	Failed []Result
}

func (r *Report) add(res Result) {
	if res.Err != nil {
		r.Failed = append(r.Failed, res)
		return
	}
	r.Fixed = append(r.Fixed, res)
}

// Err returns all per-file failures combined, or nil when every file was
// fixed.
func (r *Report) Err() error {
	var merr *multierror.Error
	for _, res := range r.Failed {
		merr = multierror.Append(merr, res.Err)
	}
	return merr.ErrorOrNil()
}

// Log writes the batch summary to logger. Detailed per-file errors have
// already been logged as they occurred.
func (r *Report) Log(logger zerolog.Logger) {
	logger.Info().
		Int("fixed", len(r.Fixed)).
		Int("failed", len(r.Failed)).
		Msg("batch finished")
	for _, res := range r.Fixed {
		logger.Info().Str("source", res.Source).Str("target", res.Target).Msg("fixed")
	}
	for _, res := range r.Failed {
		logger.Warn().Str("source", res.Source).Msg("failed")
	}
}
