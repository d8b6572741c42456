package main

import (
	"fmt"
	"sync"
	"time"
)

// newProgress drives a simple staged progress reporter: each of the
// first `stages` messages sent on the returned channel advances to the
// next stage and prints the elapsed time of the stage that just
// finished; each float64 sent on the second channel updates the
// current stage's percentage. Message number `stages`+1 closes the
// last stage and is printed as a final line, after which the returned
// WaitGroup is done.
func newProgress(stages int) (chan<- string, chan<- float64, *sync.WaitGroup) {
	progressChannel := make(chan float64)
	messageChannel := make(chan string)
	var finishWait sync.WaitGroup
	finishWait.Add(1)
	go func() {
		defer finishWait.Done()
		currentMessage := ""
		currentProgress := 0.0
		currentStage := 0
		stageStart := time.Now()
		print := func(percentage bool) {
			if percentage {
				fmt.Printf("\033[2K\rStep %d/%d: %s... %.3f%%", currentStage, stages, currentMessage, currentProgress)
			} else {
				fmt.Printf("\033[2K\rStep %d/%d: %s -> %s", currentStage, stages, currentMessage, time.Since(stageStart).String())
			}
		}
		for {
			select {
			case message := <-messageChannel:
				print(false)
				stageStart = time.Now()

				currentMessage = message
				currentProgress = 0
				currentStage += 1

				if currentStage > stages {
					fmt.Println()
					fmt.Println(message)
					return
				}
				if currentStage > 1 {
					fmt.Println()
				}
				print(true)

			case progress := <-progressChannel:
				currentProgress = progress * 100
				print(true)
			}
		}
	}()
	return messageChannel, progressChannel, &finishWait
}
