package queue

import "github.com/hibiken/asynq"

type Registry struct {
	mux *asynq.ServeMux
}

func NewRegistry() *Registry {
	return &Registry{mux: asynq.NewServeMux()}
}

func (r *Registry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
}

func (r *Registry) Mux() *asynq.ServeMux {
	return r.mux
}
