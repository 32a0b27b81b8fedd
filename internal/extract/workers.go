package extract

import (
	"context"
	"log/slog"
	"sync"
)

func run(ctx context.Context, logger *slog.Logger, r *Runner, jobList []Job, workerCount int) []Result {
	if workerCount < 1 {
		workerCount = 1
	}
	logger.Info("Starting concurrent extract phase", "job_count", len(jobList), "workers", workerCount, "live", r.Live, "format", r.Format)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(jobList))
	results := make(chan Result, len(jobList))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, r, &wg, jobs, results)
	}

	for _, job := range jobList {
		jobs <- job
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All extract workers finished")

	// results arrive in completion order; report them in job order
	bySource := make(map[string][]Result, len(jobList))
	for result := range results {
		src := result.Job.Source()
		bySource[src] = append(bySource[src], result)
	}
	out := make([]Result, 0, len(jobList))
	for _, job := range jobList {
		src := job.Source()
		if rs := bySource[src]; len(rs) > 0 {
			out = append(out, rs[0])
			bySource[src] = rs[1:]
		}
	}
	return out
}

func worker(ctx context.Context, id int, logger *slog.Logger, r *Runner, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started job", "worker_id", id, "source", job.Source(), "selector", job.Selector)

		if err := ctx.Err(); err != nil {
			results <- Result{Job: job, Error: err, ErrorType: "canceled"}
			continue
		}

		result := r.Process(ctx, job)
		if result.Error != nil {
			logger.Error("Job failed", "worker_id", id, "source", job.Source(), "error_type", result.ErrorType, "error", result.Error)
		} else {
			logger.Info("Worker finished job", "worker_id", id, "source", job.Source(), "id", result.Snapshot.ID, "fallback", result.Snapshot.Fallback)
		}
		results <- result
	}
}
