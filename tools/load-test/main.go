package main

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	// Configuration
	checkinURL := "http://localhost:8080/api/v1/checkin"
	checkoutURL := "http://localhost:8080/api/v1/checkout"
	contentType := "application/json"

	numReps := 2000
	concurrency := 50 // Limit concurrent requests to avoid local port exhaustion

	fmt.Printf("Starting load test: %d reps (check-in + checkout each) with concurrency %d\n", numReps, concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	var successCount int64
	var failCount int64

	startTime := time.Now()

	post := func(url string, payload []byte) {
		resp, err := http.Post(url, contentType, bytes.NewBuffer(payload))
		if err != nil {
			atomic.AddInt64(&failCount, 1)
			return
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			atomic.AddInt64(&successCount, 1)
		} else {
			atomic.AddInt64(&failCount, 1)
		}
		resp.Body.Close()
	}

	for i := 0; i < numReps; i++ {
		wg.Add(1)
		sem <- struct{}{}

		email := fmt.Sprintf("load-test-rep-%d@example.com", i)
		location := fmt.Sprintf("Store-%d", i%50)

		go func(email, location string) {
			defer wg.Done()
			defer func() { <-sem }()

			checkin := []byte(fmt.Sprintf(
				`{"email": %q, "location": %q, "gps": "13.7563, 100.5018"}`, email, location))
			post(checkinURL, checkin)

			checkout := []byte(fmt.Sprintf(
				`{"email": %q, "location": %q, "gps": "13.7564, 100.5019"}`, email, location))
			post(checkoutURL, checkout)
		}(email, location)
	}

	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Done in %s: %d ok, %d failed\n", elapsed, successCount, failCount)
}
