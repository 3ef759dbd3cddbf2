package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"ascendex-bars/internal/model"
	"ascendex-bars/internal/provider"
	"ascendex-bars/internal/provider/ascendex"
	"ascendex-bars/internal/saver"
	"ascendex-bars/internal/slogx"
	"ascendex-bars/internal/store"
)

// Job represents one ingest unit (a captured response file)
type Job struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Stamp identifies the file version a job was created from.
func (j Job) Stamp() string {
	return fmt.Sprintf("%d:%d", j.Size, j.ModTime.UnixNano())
}

// JobResult is sent by workers for fan-in
type JobResult struct {
	Ok      bool
	Path    string
	Stamp   string
	Reason  string
	Bars    int
	Skipped int
	Packets int
	// BarsBySymbol counts stored bars per symbol for the summary.
	BarsBySymbol map[string]int
}

// Cmd triggers an ingest run
type Cmd struct{}

// Done signals ingest completion
type Done struct{}

// Summary is the outcome of one run.
type Summary struct {
	Jobs        int
	Success     int
	Failed      int
	Bars        int
	Skipped     int
	SuccessList []string
	FailedList  []FailedEntry
}

// Pipeline holds everything a run needs. Store and Saver may be no-ops.
type Pipeline struct {
	Provider    *provider.AscendexProvider
	Saver       saver.PacketSaver // nil disables packet files
	Store       store.Store
	SaveBaseDir string // data/AscendEX
	Workers     int
	Heartbeat   time.Duration
	LogOutput   io.Writer // fan-in log sink, stdout when nil
}

// FilterFilesToIngest returns jobs for files whose size/mtime differ from the progress file.
func FilterFilesToIngest(files []string, progressPath string) []Job {
	m := loadProgress(progressPath)
	var jobs []Job
	for _, f := range files {
		fi, err := os.Stat(f)
		if err != nil {
			slog.Warn("stat input file", "path", f, "error", err)
			continue
		}
		j := Job{Path: f, Size: fi.Size(), ModTime: fi.ModTime()}
		if m[f] == j.Stamp() {
			continue
		}
		jobs = append(jobs, j)
	}
	return jobs
}

// RunOnce runs one ingest cycle over inputDir and writes the run report.
func (p *Pipeline) RunOnce(ctx context.Context, inputDir, progressPath string, progressUpdates chan<- ProgressUpdate) (Summary, error) {
	files, err := ascendex.DiscoverFiles(inputDir)
	if err != nil {
		return Summary{}, err
	}
	jobs := FilterFilesToIngest(files, progressPath)
	if len(jobs) == 0 {
		slog.Info("no new input files, skip", "files", len(files))
		return Summary{}, nil
	}
	if skipped := len(files) - len(jobs); skipped > 0 {
		slog.Info("files up to date, jobs to ingest", "skipped", skipped, "jobs", len(jobs))
	} else {
		slog.Info("jobs to ingest", "jobs", len(jobs))
	}

	sum := p.RunParallel(ctx, jobs, progressUpdates)
	if len(sum.SuccessList) > 0 || len(sum.FailedList) > 0 {
		if err := writeRunReport(p.SaveBaseDir, sum.SuccessList, sum.FailedList); err != nil {
			slog.Warn("could not write run report", "error", err)
		} else {
			slog.Info("run report saved", "success", len(sum.SuccessList), "failed", len(sum.FailedList))
		}
	}
	slog.Info("ingest done", "success", sum.Success, "failed", sum.Failed, "bars", sum.Bars, "skipped", sum.Skipped)
	return sum, nil
}

func runJobResultCollector(results <-chan JobResult, mu *sync.Mutex, sum *Summary, barsPerSymbol map[string]int) {
	for r := range results {
		mu.Lock()
		if r.Ok {
			sum.Success++
			sum.Bars += r.Bars
			sum.Skipped += r.Skipped
			sum.SuccessList = appendSuccess(sum.SuccessList, r.Path)
			for s, n := range r.BarsBySymbol {
				barsPerSymbol[s] += n
			}
		} else {
			sum.Failed++
			sum.FailedList = append(sum.FailedList, FailedEntry{Path: r.Path, Reason: r.Reason})
		}
		mu.Unlock()
	}
}

// RunParallel ingests jobs with N workers and fans results in.
func (p *Pipeline) RunParallel(ctx context.Context, jobs []Job, progressUpdates chan<- ProgressUpdate) Summary {
	out := p.LogOutput
	if out == nil {
		out = os.Stdout
	}
	logs := make(chan string, 2048)
	logger := slogx.NewChanLogger(logs)
	errs := make(chan errorEntry, 64)
	var logWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		defer logWg.Done()
		runLogWriter(out, logs)
	}()
	var errWg sync.WaitGroup
	errWg.Add(1)
	go func() {
		defer errWg.Done()
		runErrorHandler(errs, logger)
	}()

	hbCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.Provider.SetLogFunc(func(msg string) { logger.Warn(msg) })
	defer func() {
		p.Provider.SetLogFunc(nil)
		close(errs)
		errWg.Wait()
		close(logs)
		logWg.Wait()
	}()

	pending := make(chan Job, len(jobs))
	for _, j := range jobs {
		pending <- j
	}
	close(pending)

	results := make(chan JobResult, len(jobs)+64)
	var mu sync.Mutex
	sum := Summary{Jobs: len(jobs)}
	barsPerSymbol := make(map[string]int)
	var resWg sync.WaitGroup
	resWg.Add(1)
	go func() {
		defer resWg.Done()
		runJobResultCollector(results, &mu, &sum, barsPerSymbol)
	}()

	heartbeat := p.Heartbeat
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	var hbWg sync.WaitGroup
	hbWg.Add(1)
	go func() {
		defer hbWg.Done()
		runHeartbeat(hbCtx, heartbeat, len(jobs), &mu, &sum, logger)
	}()

	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-pending:
					if !ok {
						return
					}
					r, err := p.processJob(ctx, job, logger)
					if err != nil {
						r.Reason = err.Error()
						errs <- errorEntry{Path: job.Path, Err: err}
						results <- r
						continue
					}
					logger.Info("ingest ok", "path", job.Path, "bars", r.Bars, "skipped", r.Skipped, "packets", r.Packets)
					results <- r
					select {
					case progressUpdates <- ProgressUpdate{Path: job.Path, Stamp: r.Stamp}:
					default:
						logger.Warn("progress channel full, skip update", "path", job.Path)
					}
				}
			}
		}()
	}
	wg.Wait()
	close(results)
	resWg.Wait()
	cancel()
	hbWg.Wait()

	mu.Lock()
	defer mu.Unlock()
	logger.Info("summary", "total_bars", sum.Bars, "success", sum.Success, "failed", sum.Failed, "skipped", sum.Skipped)
	if len(barsPerSymbol) > 0 {
		symbols := make([]string, 0, len(barsPerSymbol))
		for s := range barsPerSymbol {
			symbols = append(symbols, s)
		}
		sort.Strings(symbols)
		for _, s := range symbols {
			logger.Info("summary symbol", "symbol", s, "bars", barsPerSymbol[s])
		}
	}
	if len(sum.FailedList) > 0 {
		logger.Info("summary failed", "count", len(sum.FailedList), "reasons", joinFailedReasons(sum.FailedList))
	}
	return sum
}

type groupKey struct {
	symbol   string
	interval model.Interval
}

// processJob reads one file, groups its records by symbol and interval,
// then saves one packet per group and upserts the group into the store.
func (p *Pipeline) processJob(ctx context.Context, job Job, logger *slog.Logger) (JobResult, error) {
	res := JobResult{Path: job.Path, Stamp: job.Stamp()}
	batch, err := p.Provider.ReadFile(job.Path)
	if err != nil {
		return res, err
	}
	res.Skipped = batch.Skipped

	groups := make(map[groupKey][]model.BarHist)
	var keys []groupKey
	for _, b := range batch.Bars {
		if !p.Provider.Accept(b.Symbol()) {
			continue
		}
		k := groupKey{b.Symbol(), b.Interval()}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], b)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].symbol != keys[j].symbol {
			return keys[i].symbol < keys[j].symbol
		}
		return keys[i].interval < keys[j].interval
	})

	res.BarsBySymbol = make(map[string]int)
	for _, k := range keys {
		bars := groups[k]
		sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time() < bars[j].Time() })

		if err := p.savePacket(k, bars, logger); err != nil {
			return res, err
		}
		if p.Store != nil {
			if _, err := p.Store.SaveBars(ctx, bars); err != nil {
				return res, fmt.Errorf("store %s %s: %w", k.symbol, k.interval, err)
			}
		}
		res.Bars += len(bars)
		res.BarsBySymbol[k.symbol] += len(bars)
	}
	res.Ok = true
	return res, nil
}

// savePacket writes bars to SaveBaseDir using Saver if configured.
func (p *Pipeline) savePacket(k groupKey, bars []model.BarHist, logger *slog.Logger) error {
	if p.SaveBaseDir == "" || p.Saver == nil || len(bars) == 0 {
		return nil
	}
	path := saver.PacketPath(p.SaveBaseDir, k.symbol, k.interval, bars[0].Time(), bars[len(bars)-1].Time(), p.Saver.Extension())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create folder %s: %w", filepath.Dir(path), err)
	}
	if err := p.Saver.Save(bars, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("saved packet", "symbol", k.symbol, "interval", string(k.interval), "path", path, "bars", len(bars))
	return nil
}
