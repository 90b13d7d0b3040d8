package testutil

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/ids"
)

// NewJob builds a pending job fixture with sane defaults, overridable via
// the mutate func.
func NewJob(jobType string, mutate func(*domain.Job)) *domain.Job {
	j := &domain.Job{
		ID:         ids.NewJobID(),
		JobType:    jobType,
		Status:     domain.JobStatusPending,
		Config:     datatypes.JSON(`{}`),
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
		MaxRetries: 0,
	}
	if mutate != nil {
		mutate(j)
	}
	return j
}

// NewWorker builds an active worker fixture advertising the given
// capabilities.
func NewWorker(workerID string, capabilities []string, mutate func(*domain.Worker)) *domain.Worker {
	caps, _ := json.Marshal(capabilities)
	w := &domain.Worker{
		ID:            workerID,
		Capabilities:  datatypes.JSON(caps),
		Status:        domain.WorkerStatusActive,
		LastHeartbeat: time.Now().UTC(),
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if mutate != nil {
		mutate(w)
	}
	return w
}
