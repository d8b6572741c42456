package main

import (
	"compress/bzip2"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const databaseFileExtension = ".sqlite3"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("expected 'server' or 'cli' subcommand")
	}

	switch os.Args[1] {
	case "server":
		runServerCommand(os.Args[2:])
	case "cli":
		runCliCommand(os.Args[2:])
	default:
		log.Fatal("unexpected subcommand, expected 'server' or 'cli'")
	}
}

func runServerCommand(args []string) {
	serverCommand := flag.NewFlagSet("server", flag.ExitOnError)
	database := serverCommand.String("database", "wikimapia"+databaseFileExtension, "Path of the database file to serve")
	cacheSize := serverCommand.Int("cache", 128*1024*1024, "Maximum size in bytes of the shortest-path result cache")

	if err := serverCommand.Parse(args); err != nil {
		log.Fatal(err)
	}

	if err := serve(*database, *cacheSize); err != nil {
		log.Fatal(err)
	}
}

func runCliCommand(args []string) {
	cliCommand := flag.NewFlagSet("cli", flag.ExitOnError)
	database := cliCommand.String("database", "wikimapia"+databaseFileExtension, "Path of the database file to build and query")
	dumps := cliCommand.String("dumps", "", "Comma-separated list of XML dump files to seed from on 'reseed'")
	memory := cliCommand.Int("memory", 50, "Percentage of total system memory used to cap the number of parse workers during seeding (one per 64 MiB)")

	if err := cliCommand.Parse(args); err != nil {
		log.Fatal(err)
	}

	maxMemoryFraction := float64(*memory) / 100
	if maxMemoryFraction <= 0 || maxMemoryFraction > 1 {
		log.Fatal(errors.New("specified memory percentage out of bounds"))
	}

	var dumpPaths []string
	if *dumps != "" {
		dumpPaths = strings.Split(*dumps, ",")
	}

	if _, err := os.Stat(*database); errors.Is(err, os.ErrNotExist) {
		if len(dumpPaths) == 0 {
			log.Fatal("database does not exist yet and no -dumps were given to seed it from")
		}
		if err := reseed(*database, dumpPaths, languageCodes, maxMemoryFraction); err != nil {
			log.Fatal(err)
		}
	}

	if err := runShell(*database, dumpPaths, languageCodes, maxMemoryFraction); err != nil {
		log.Fatal(err)
	}
}

// openDumps opens each named dump file for reading, transparently
// unwrapping a .bz2-compressed export so seed itself never needs to
// know about compression (spec §1 places dump decompression outside
// the core). The caller must invoke the returned closer once done with
// every reader.
func openDumps(paths []string) ([]io.Reader, func(), error) {
	files := make([]*os.File, 0, len(paths))
	readers := make([]io.Reader, 0, len(paths))

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, file)

		var reader io.Reader = file
		if strings.HasSuffix(path, ".bz2") {
			reader = bzip2.NewReader(file)
		}
		readers = append(readers, reader)
	}

	return readers, closeAll, nil
}
