package cron

import "context"

// Job is a maintenance sweep the worker runs once per cycle.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the sweeps for a worker, keyed by job name. Registering a
// name twice replaces the earlier job so a rewired worker cannot run the same
// sweep twice in one cycle. Order of first registration is preserved.
type Registry struct {
	order  []string
	byName map[string]Job
}

// NewRegistry builds a registry from the given jobs, ignoring nils.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{byName: map[string]Job{}}
	for _, job := range jobs {
		r.Register(job)
	}
	return r
}

// Register adds or replaces a job under its name.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	name := job.Name()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = job
}

// Jobs returns the registered jobs in first-registration order.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, 0, len(r.order))
	for _, name := range r.order {
		jobs = append(jobs, r.byName[name])
	}
	return jobs
}

// Len reports the number of registered jobs.
func (r *Registry) Len() int {
	return len(r.order)
}
