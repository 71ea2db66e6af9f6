package pipeline

import (
	"context"
	"log/slog"

	"github.com/dgallion1/papersect/internal/rules"
	"github.com/dgallion1/papersect/internal/segment"
)

// Worker processes batch jobs one at a time.
type Worker struct {
	rules *rules.Store
	log   *slog.Logger
	opts  Options
}

func NewWorker(rs *rules.Store, log *slog.Logger, opts Options) *Worker {
	return &Worker{rules: rs, log: log, opts: opts}
}

// Process segments every upload of job. The rule table is read once per
// job, so a reload never changes rules halfway through a batch.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	defer job.releaseUploads()

	job.SetStatus(StatusSegmenting, "segmenting")
	seg := segment.New(w.rules.Load(), log)

	uploads := job.Uploads()
	for _, u := range uploads {
		if err := ctx.Err(); err != nil {
			job.AddFailure(Failure{Path: u.Filename, Reason: ReasonCanceled, Err: err})
			continue
		}
		rec, err := SegmentFile(seg, u.Filename, u.data, w.opts)
		if err != nil {
			log.Warn("document skipped", "file", u.Filename, "error", err)
			job.AddFailure(Failure{Path: u.Filename, Reason: Classify(err), Err: err})
			continue
		}
		job.AddRecord(rec)
	}

	snap := job.Snapshot()
	switch {
	case snap.Progress.Failed == 0:
		job.SetStatus(StatusCompleted, "done")
	case snap.Progress.Succeeded > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusFailed, "segmenting")
	}
	log.Info("job finished",
		"files", len(uploads),
		"succeeded", snap.Progress.Succeeded,
		"failed", snap.Progress.Failed,
	)
}
