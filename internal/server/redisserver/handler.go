package redisserver

import (
	"context"
	"time"

	"github.com/yndnr/respkv/internal/command"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// Label used for requests that never became a command.
const invalidCommandLabel = "invalid"

var errRateLimited = resp.SimpleError("ERR rate limit exceeded")

// handle runs one decoded request and returns the reply. closeAfter is set
// when the connection must be closed once the reply is written.
func (s *Server) handle(ctx context.Context, c *Conn, f resp.Frame) (reply resp.Frame, closeAfter bool) {
	if s.limiters != nil && !s.limiters.allow(c.clientIP()) {
		s.metrics.RateLimited.Inc()
		return errRateLimited, false
	}

	cmd, err := command.Parse(f)
	if err != nil {
		s.metrics.CommandsTotal.WithLabelValues(invalidCommandLabel, metric.ResultError).Inc()
		logger.L(ctx).Debug("rejected request", "error", err)
		return command.ErrorReply(err), s.cfg.CloseOnCommandError
	}

	name := cmd.Name()
	start := time.Now()
	reply = cmd.Execute(s.store)
	s.metrics.CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	result := metric.ResultOK
	if _, isErr := reply.(resp.SimpleError); isErr {
		result = metric.ResultError
	}
	s.metrics.CommandsTotal.WithLabelValues(name, result).Inc()
	return reply, false
}
