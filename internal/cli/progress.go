package cli

import (
	"errors"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"github.com/glorpus-work/wikidump/pkg/download"
	indexhttp "github.com/glorpus-work/wikidump/pkg/http"
)

// progressUI renders one progress bar per index fetch and download stage.
// A nil *progressUI renders nothing.
type progressUI struct {
	pw      progress.Writer
	index   *progress.Tracker
	stopped bool
}

func newProgressUI(out io.Writer) *progressUI {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(progressTrackerLength)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(progressUpdateFrequency)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Speed = true

	go pw.Render()
	return &progressUI{pw: pw}
}

func (p *progressUI) tracker(message string, total int64) *progress.Tracker {
	t := &progress.Tracker{Message: message, Total: total, Units: progress.UnitsBytes}
	p.pw.AppendTracker(t)
	return t
}

// indexProgress reports the index fetch. The bar is created on the first chunk.
func (p *progressUI) indexProgress() indexhttp.ProgressFunc {
	if p == nil {
		return nil
	}
	return func(delta, total int64) {
		if p.index == nil {
			p.index = p.tracker("Downloading index file", total)
		}
		p.index.Increment(delta)
	}
}

// indexDone completes the index bar once the index has been loaded or failed.
func (p *progressUI) indexDone(err error) {
	if p == nil || p.index == nil {
		return
	}
	finishTracker(p.index, err)
}

// track adds progress bars for both stages of a download to h. The completion
// callbacks already in h still decide the stage result.
func (p *progressUI) track(name string, size int64, h download.Hooks) download.Hooks {
	if p == nil {
		return h
	}

	fetch := p.tracker("fetch "+name, size)
	h.DownloadProgress = func(delta, _ int64) {
		fetch.Increment(delta)
	}
	h.DownloadComplete = observe(h.DownloadComplete, func(err error) {
		finishTracker(fetch, err)
	})

	// Progress and completion of a stage run on the task goroutine, so the bar
	// can be created on the first chunk without locking.
	var decompress *progress.Tracker
	h.DecompressProgress = func(delta, total int64) {
		if decompress == nil {
			decompress = p.tracker("write "+name, total)
		}
		decompress.Increment(delta)
	}
	h.DecompressComplete = observe(h.DecompressComplete, func(err error) {
		if decompress != nil {
			finishTracker(decompress, err)
		}
	})
	return h
}

// stop renders the final state and waits for the renderer to exit.
func (p *progressUI) stop() {
	if p == nil || p.stopped {
		return
	}
	p.stopped = true
	p.pw.Stop()
	for p.pw.IsRenderInProgress() {
		time.Sleep(progressUpdateFrequency / 2)
	}
}

// observe runs next and then reports the combined stage and hook outcome to done.
func observe(next download.CompletionFunc, done func(error)) download.CompletionFunc {
	if next == nil {
		next = download.NoopCompletion
	}
	return func(stageErr error) error {
		hookErr := next(stageErr)
		done(errors.Join(stageErr, hookErr))
		return hookErr
	}
}

func finishTracker(t *progress.Tracker, err error) {
	if err != nil {
		t.MarkAsErrored()
		return
	}
	t.MarkAsDone()
}
