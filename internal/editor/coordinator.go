package editor

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DualSaveResult merges the outcomes of saving personal data and clinical
// history together. The two errors are kept apart so the screen can attach
// each to its own section.
type DualSaveResult struct {
	IsSuccess            bool
	PersonalDataError    string
	ClinicalHistoryError string
	ErrorMessage         string
}

// Coordinator runs the personal-data save and the clinical-history save as
// one action. On success it waits SuccessDelay (the screen shows its
// confirmation for that long) before invoking the completion callback.
type Coordinator struct {
	SuccessDelay time.Duration

	sleep func(time.Duration)
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		SuccessDelay: 800 * time.Millisecond,
		sleep:        time.Sleep,
	}
}

// SaveBoth runs the two saves concurrently and waits for both. The overall
// action succeeds only when both do; there is no rollback, a half-saved pair
// is reported as a partial failure and the surviving half stays persisted.
// onComplete fires only on full success, after the delay.
func (c *Coordinator) SaveBoth(ctx context.Context, savePersonal, saveHistory func(context.Context) error, onComplete func()) DualSaveResult {
	res := mergeSaves(ctx, savePersonal, saveHistory)
	if res.IsSuccess && onComplete != nil {
		c.sleep(c.SuccessDelay)
		onComplete()
	}
	return res
}

// SaveBoth is the callback-free form of Coordinator.SaveBoth.
func SaveBoth(ctx context.Context, savePersonal, saveHistory func(context.Context) error) DualSaveResult {
	return mergeSaves(ctx, savePersonal, saveHistory)
}

func mergeSaves(ctx context.Context, savePersonal, saveHistory func(context.Context) error) DualSaveResult {
	var (
		wg         sync.WaitGroup
		pErr, hErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		pErr = savePersonal(ctx)
	}()
	go func() {
		defer wg.Done()
		hErr = saveHistory(ctx)
	}()
	wg.Wait()

	res := DualSaveResult{IsSuccess: pErr == nil && hErr == nil}
	var parts []string
	if pErr != nil {
		res.PersonalDataError = pErr.Error()
		parts = append(parts, "Personal data: "+pErr.Error())
	}
	if hErr != nil {
		res.ClinicalHistoryError = hErr.Error()
		parts = append(parts, "Clinical history: "+hErr.Error())
	}
	res.ErrorMessage = strings.Join(parts, "; ")
	return res
}
