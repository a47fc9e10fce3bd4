package metrics

import (
	"maps"
	"time"

	obserrors "github.com/target/saarevents/internal/observability/errors"
	"github.com/target/saarevents/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
	ResultStale   = "stale"
)

// Session lifecycle operations.
const (
	OpRestore        = "restore"
	OpLogin          = "login"
	OpLoginFederated = "login_federated"
	OpRefresh        = "refresh"
	OpFavoritesLoad  = "favorites_load"
	OpFavoriteAdd    = "favorite_add"
	OpFavoriteRemove = "favorite_remove"
	OpLogout         = "logout"
)

// SessionMetric captures one session lifecycle event for metric emission.
type SessionMetric struct {
	Op       string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitSession emits standardised session lifecycle metrics.
func EmitSession(sink statsd.Sink, in SessionMetric) {
	if sink == nil || in.Op == "" {
		return
	}

	result := in.Result
	if result == "" {
		result = ResultSuccess
		if in.Err != nil {
			result = ResultError
		}
	}

	tags := map[string]string{
		"op":     in.Op,
		"result": result,
	}
	if in.Err != nil && result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("session.op", 1, tags)

	if in.Duration > 0 {
		sink.Timing("session.op.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
