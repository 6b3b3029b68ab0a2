// Package integration provides integration testing for the TMS backend API.
// This file contains concurrency smoke tests: the API must stay correct when
// multiple clients create, read, and update records at the same time.
package integration

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	partnerapp "github.com/tms/backend/internal/application/partner"
)

func TestConcurrency_ParallelCreates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("conc"))

	const workers = 8
	const perWorker = 5

	var created int64
	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				w := ts.Request(http.MethodPost, "/api/v1/partners", map[string]interface{}{
					"code": fmt.Sprintf("CONC-%d-%d", worker, i),
					"name": fmt.Sprintf("Concurrent Partner %d-%d", worker, i),
					"type": "customer",
				}, tenant.AccessToken)
				if w.Code == http.StatusCreated {
					atomic.AddInt64(&created, 1)
				}
			}
		}(worker)
	}
	wg.Wait()

	assert.Equal(t, int64(workers*perWorker), created, "Every create with a unique code must succeed")

	w := ts.Request(http.MethodGet, "/api/v1/partners?page=1&page_size=100", nil, tenant.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var items []partnerapp.PartnerDTO
	DecodeData(t, w, &items)
	assert.Len(t, items, workers*perWorker)
}

func TestConcurrency_OptimisticLockContention(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("lockc"))
	target := createPartner(t, ts, tenant, "LOCK-001", "Contested Partner", "customer")

	const writers = 6

	var updated, conflicted int64
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every writer uses the same starting version
			w := ts.Request(http.MethodPut, "/api/v1/partners/"+target.ID.String(), map[string]interface{}{
				"version": target.Version,
				"name":    fmt.Sprintf("Writer %d", i),
			}, tenant.AccessToken)
			switch w.Code {
			case http.StatusOK:
				atomic.AddInt64(&updated, 1)
			case http.StatusConflict:
				atomic.AddInt64(&conflicted, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), updated, "Exactly one writer may commit against the version")
	assert.Equal(t, int64(writers-1), conflicted, "Every other writer must see a stale version")

	w := ts.Request(http.MethodGet, "/api/v1/partners/"+target.ID.String(), nil, tenant.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var dto partnerapp.PartnerDTO
	DecodeData(t, w, &dto)
	assert.Equal(t, target.Version+1, dto.Version, "Version must advance exactly once")
}

func TestConcurrency_MixedReadWrite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("mixrw"))

	for i := 0; i < 5; i++ {
		createPartner(t, ts, tenant, fmt.Sprintf("MIX-%03d", i), fmt.Sprintf("Mixed Partner %d", i), "carrier")
	}

	const readers = 6
	const reads = 10

	var failures int64
	var wg sync.WaitGroup
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < reads; i++ {
				w := ts.Request(http.MethodGet, "/api/v1/partners?type=carrier", nil, tenant.AccessToken)
				if w.Code != http.StatusOK {
					atomic.AddInt64(&failures, 1)
				}
			}
		}()
	}
	// One writer churns creates alongside the readers
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			w := ts.Request(http.MethodPost, "/api/v1/partners", map[string]interface{}{
				"code": fmt.Sprintf("MIX-W-%03d", i),
				"name": fmt.Sprintf("Churned Partner %d", i),
				"type": "carrier",
			}, tenant.AccessToken)
			if w.Code != http.StatusCreated {
				atomic.AddInt64(&failures, 1)
			}
		}
	}()
	wg.Wait()

	assert.Zero(t, failures, "No request may fail under mixed load")
}
