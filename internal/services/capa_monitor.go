package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/caseflow/backend/internal/repository"
)

// CapaMonitor periodically scans for corrective actions past their due date
// and notifies the assigned staff once per item.
type CapaMonitor interface {
	Start(ctx context.Context)
	Stop()
	CheckOverdue(ctx context.Context) error
}

type capaMonitor struct {
	store    repository.CaseStore
	notifier Notifier
	interval time.Duration
	stopChan chan struct{}

	mu      sync.Mutex
	running bool
}

func NewCapaMonitor(store repository.CaseStore, notifier Notifier, checkInterval time.Duration) CapaMonitor {
	if checkInterval == 0 {
		checkInterval = 15 * time.Minute
	}
	return &capaMonitor{
		store:    store,
		notifier: notifier,
		interval: checkInterval,
		stopChan: make(chan struct{}),
	}
}

func (m *capaMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()
	log.Printf("CAPA monitor started with interval: %v", m.interval)

	go func() {
		if err := m.CheckOverdue(ctx); err != nil {
			log.Printf("Initial CAPA check failed: %v", err)
		}

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := m.CheckOverdue(ctx); err != nil {
					log.Printf("CAPA check failed: %v", err)
				}
			case <-m.stopChan:
				log.Println("CAPA monitor stopped")
				return
			case <-ctx.Done():
				log.Println("CAPA monitor context cancelled")
				return
			}
		}
	}()
}

func (m *capaMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stopChan)
}

func (m *capaMonitor) CheckOverdue(ctx context.Context) error {
	now := time.Now()
	overdue, err := m.store.UnnotifiedOverdueCapas(ctx, now)
	if err != nil {
		return err
	}

	for i := range overdue {
		capa := &overdue[i]
		// Stamp only the notification column; the row may have been updated
		// by a staffer since the scan read it.
		if err := m.store.UpdateCapaNotified(ctx, capa.ID, now); err != nil {
			log.Printf("failed to mark corrective action %s notified: %v", capa.ID, err)
			continue
		}
		capa.OverdueNotifiedAt = &now
		if m.notifier != nil {
			m.notifier.CapaOverdue(capa)
		}
	}

	if len(overdue) > 0 {
		log.Printf("CAPA monitor flagged %d overdue corrective actions", len(overdue))
	}
	return nil
}
