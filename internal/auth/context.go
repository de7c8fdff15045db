package auth

import "context"

type contextKey string

const contextKeyWorker contextKey = "auth.worker_id"

// WithWorkerID stores the authenticated worker id in context.
func WithWorkerID(ctx context.Context, workerID string) context.Context {
	return context.WithValue(ctx, contextKeyWorker, workerID)
}

// WorkerIDFromContext extracts the authenticated worker id from context.
func WorkerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeyWorker)
	if workerID, ok := value.(string); ok {
		return workerID
	}
	return ""
}
