package service

import (
	"context"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

// NopLimiter never throttles.
type NopLimiter struct{}

func (NopLimiter) Blocked(context.Context, string) (bool, error) { return false, nil }
func (NopLimiter) RecordFailure(context.Context, string) error { return nil }
func (NopLimiter) Reset(context.Context, string) error { return nil }

// NopAuditSink discards every event.
type NopAuditSink struct{}

func (NopAuditSink) Publish(domain.AuthEvent) {}
