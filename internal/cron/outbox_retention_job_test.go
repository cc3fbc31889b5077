package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
)

type fakeOutboxRetentionRepo struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeOutboxRetentionRepo) DeletePublishedBefore(_ *gorm.DB, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestOutboxRetentionJobUsesCutoff(t *testing.T) {
	now := time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &fakeOutboxRetentionRepo{deleted: 3}
	job, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:         passthroughTx{},
		Repository: repo,
		Retention:  48 * time.Hour,
		Now:        func() time.Time { return now },
	})
	require.NoError(t, err)
	require.Equal(t, "outbox-retention", job.Name())

	require.NoError(t, job.Run(context.Background()))
	require.Equal(t, now.Add(-48*time.Hour), repo.cutoff)
}

func TestOutboxRetentionJobDefaultsAndErrors(t *testing.T) {
	now := time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &fakeOutboxRetentionRepo{err: errors.New("db gone")}
	job, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:         passthroughTx{},
		Repository: repo,
		Now:        func() time.Time { return now },
	})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.ErrorContains(t, err, "db gone")
	require.Equal(t, now.Add(-defaultOutboxRetention), repo.cutoff)

	_, err = NewOutboxRetentionJob(OutboxRetentionJobParams{DB: passthroughTx{}, Repository: repo})
	require.Error(t, err)
}
