package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
)

// runShell drives the interactive command-line front-end (spec §6):
// an external collaborator whose contract is just the five named
// commands below. databasePath both the path seed writes to and the
// path the shell's "search"/"depth" commands query against.
func runShell(databasePath string, dumps []string, languages map[string]string, maxMemoryFraction float64) error {
	fmt.Println("Wikimapia. Enter 'h' for list of commands")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "h":
			fmt.Println("h          Displays this message")
			fmt.Println("reseed     Re-seeds the database of connections")
			fmt.Println("search     Starts a shortest path search between articles")
			fmt.Println("depth      Reports the maximum reachable depth from a page")
			fmt.Println("exit       Exits the application")

		case "reseed":
			if err := reseed(databasePath, dumps, languages, maxMemoryFraction); err != nil {
				log.Print("error seeding database: ", err)
			}

		case "search":
			start, ok := prompt(scanner, "Enter start page: ")
			if !ok {
				return scanner.Err()
			}
			end, ok := prompt(scanner, "Enter end page: ")
			if !ok {
				return scanner.Err()
			}

			store, err := openStoreReadOnly(databasePath)
			if err != nil {
				log.Print("error opening database: ", err)
				continue
			}
			path, err := store.ShortestPath(start, end)
			store.Close()
			if err != nil {
				fmt.Println("no path found:", err)
				continue
			}
			fmt.Println(path)

		case "depth":
			start, ok := prompt(scanner, "Enter start page: ")
			if !ok {
				return scanner.Err()
			}

			store, err := openStoreReadOnly(databasePath)
			if err != nil {
				log.Print("error opening database: ", err)
				continue
			}
			depth, err := store.MaxDepth(start)
			store.Close()
			if err != nil {
				fmt.Println("error finding depth:", err)
				continue
			}
			fmt.Println("Max depth:", depth)

		case "exit":
			return nil

		default:
			fmt.Println("Invalid input, enter 'h' for list of commands.")
		}
	}
}

func prompt(scanner *bufio.Scanner, message string) (string, bool) {
	fmt.Print(message)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// reseed re-runs seed from scratch against databasePath, per spec §5:
// seed is never incremental. Any existing catalog file is removed first
// so PAGES/LINKS/REDIRECTS/LANGUAGE_CODES are created empty, matching
// the teacher's own build.go, which removes the target path before
// building rather than trusting CREATE TABLE IF NOT EXISTS to start
// clean.
func reseed(databasePath string, dumpPaths []string, languages map[string]string, maxMemoryFraction float64) error {
	if err := os.Remove(databasePath); err != nil && !os.IsNotExist(err) {
		return err
	}

	store, err := openStore(databasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	readers, closeAll, err := openDumps(dumpPaths)
	if err != nil {
		return err
	}
	defer closeAll()

	return store.Seed(readers, languages, maxMemoryFraction)
}
