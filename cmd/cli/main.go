package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/wadjakorntonsri/go-shortlink/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-shortlink/pkg/config"
	"github.com/wadjakorntonsri/go-shortlink/pkg/core/domain"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	// log.Fatal skips deferred calls, so close the store before exiting.
	var cmdErr error
	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		cmdErr = doExport(repo, os.Stdout)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			cmdErr = errors.New("missing -file")
		} else {
			cmdErr = doImport(repo, *importFile)
		}
	default:
		cmdErr = errors.Errorf("unknown subcommand %q, expected 'export' or 'import'", os.Args[1])
	}

	if closeErr := repo.Close(); closeErr != nil && cmdErr == nil {
		cmdErr = closeErr
	}
	if cmdErr != nil {
		log.Fatal(cmdErr)
	}
}

func doExport(repo *sqlite.SQLiteRepository, w io.Writer) error {
	links, err := repo.Dump(context.Background())
	if err != nil {
		return errors.Wrap(err, "export")
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(links), "encode")
}

func doImport(repo *sqlite.SQLiteRepository, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "open import file")
	}
	defer file.Close()

	var links []domain.Link
	if err := json.NewDecoder(file).Decode(&links); err != nil {
		return errors.Wrap(err, "decode import file")
	}

	ctx := context.Background()
	count := 0
	for _, l := range links {
		// Short codes and deletion tokens are unique; skip rows already there.
		exists, existsErr := repo.Exists(ctx, l.ShortCode)
		if existsErr != nil {
			return errors.Wrapf(existsErr, "lookup %s", l.ShortCode)
		}
		if exists {
			log.Printf("Skipping existing code: %s", l.ShortCode)
			continue
		}

		if err := repo.Create(ctx, &l); err != nil {
			log.Printf("Failed to import %s: %v", l.ShortCode, err)
		} else {
			count++
		}
	}
	log.Printf("Imported %d links", count)
	return nil
}
