package main

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/pbnjay/memory"
)

// maxWorkersForMemory caps shard parallelism against a budget of
// maxMemoryFraction of total system memory, allowing one worker per
// 64 MiB of budget and never more than wanted. The cap does not look
// at the dump's size: the splitter reads a whole dump into memory and
// copies it into its chunks (roughly 2x the dump resident) whatever
// the worker count, so seeding memory use is not held to the budget.
func maxWorkersForMemory(wanted int, maxMemoryFraction float64) int {
	if maxMemoryFraction <= 0 || maxMemoryFraction > 1 {
		return wanted
	}
	budget := uint64(float64(memory.TotalMemory()) * maxMemoryFraction)
	// Assume roughly 64MB of headroom per worker is the minimum viable
	// share; below that, parallelism buys nothing but contention.
	const perWorkerFloor = 64 * 1024 * 1024
	if budget == 0 {
		return wanted
	}
	allowed := int(budget / perWorkerFloor)
	if allowed < 1 {
		allowed = 1
	}
	if allowed < wanted {
		return allowed
	}
	return wanted
}

// Seed implements the core's seed(shard_stream) entrypoint (spec §1).
// It walks each dump serially, parallelizing the parse of each one
// internally across workers bounded by hardware parallelism and the
// memory budget, and finishes by applying the deferred index DDL.
func (s *Store) Seed(dumps []io.Reader, languages map[string]string, maxMemoryFraction float64) error {
	messages, _, progressWait := newProgress(len(dumps) + 2)

	messages <- "Seeding language codes"
	if err := s.seedLanguageCodes(languages); err != nil {
		return fmt.Errorf("seeding language codes: %w", err)
	}

	workers := maxWorkersForMemory(runtime.NumCPU(), maxMemoryFraction)
	log.Printf("seeding with %d parse workers", workers)

	for i, dump := range dumps {
		messages <- fmt.Sprintf("Parsing dump %d/%d", i+1, len(dumps))
		if err := s.seedDump(dump, languages, workers); err != nil {
			return fmt.Errorf("seeding dump %d: %w", i, err)
		}
	}

	messages <- "Building deferred indexes"
	if err := s.buildIndexes(); err != nil {
		return err
	}

	messages <- "Finished seeding"
	progressWait.Wait()
	return nil
}

// seedDump is the coordinator for a single dump (component G): split
// it into page-aligned shards, spawn one parse worker per shard, join
// their results, and hand each one to the writer as soon as it's
// ready.
func (s *Store) seedDump(dump io.Reader, languages map[string]string, workers int) error {
	shards, err := splitShards(dump, workers)
	if err != nil {
		return err
	}

	bar := pb.StartNew(len(shards))
	defer bar.Finish()

	var wg sync.WaitGroup
	errs := make(chan error, len(shards))

	for _, shard := range shards {
		wg.Add(1)
		go func(shard string) {
			defer wg.Done()
			// A worker panic during seed is fatal (spec §7): recover
			// just enough to turn it into a returned error so the
			// coordinator can abort the whole seed with a clean
			// message instead of taking the whole process down from a
			// background goroutine.
			defer func() {
				if r := recover(); r != nil {
					errs <- fmt.Errorf("parse worker panicked: %v", r)
				}
			}()

			result, err := parseShard(shard, languages)
			if err != nil {
				errs <- fmt.Errorf("parsing shard: %w", err)
				return
			}
			if err := s.writeShardResult(result); err != nil {
				errs <- fmt.Errorf("writing shard: %w", err)
				return
			}
			bar.Increment()
		}(shard)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
