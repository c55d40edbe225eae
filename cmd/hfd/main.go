package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hashforge/hfd/pkg/config"
	"github.com/hashforge/hfd/pkg/core/consensus"
	"github.com/hashforge/hfd/pkg/miner"
	"github.com/hashforge/hfd/pkg/store"
	"github.com/hashforge/hfd/pkg/verify"
)

func main() {
	defaults := config.Default()

	// Subcommands
	mineCmd := flag.NewFlagSet("mine", flag.ExitOnError)
	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)

	// Flags
	mineData := mineCmd.String("data", defaults.Data, "payload to mine over")
	mineZeros := mineCmd.Uint64("zeros", defaults.Zeros, "required leading zero bits")
	mineTimestamp := mineCmd.Bool("timestamp", defaults.IncludeTimestamp, "include a millisecond timestamp in the hashed message")
	mineWorkers := mineCmd.Int("workers", defaults.Workers, "parallel search workers (1 = sequential)")
	mineMaxNonce := mineCmd.Uint64("max-nonce", defaults.MaxNonce, "stop after this nonce (0 = unbounded)")
	mineOut := mineCmd.String("out", defaults.OutputPath, "output file for the mined record")
	mineArchive := mineCmd.String("archive", defaults.ArchiveDir, "optional record archive directory")

	verifyIn := verifyCmd.String("in", defaults.OutputPath, "record file to verify")
	verifyTimestamp := verifyCmd.Bool("timestamp", defaults.IncludeTimestamp, "expect the timestamp message variant")

	if len(os.Args) < 2 {
		fmt.Println("Usage: hfd [mine|verify] <args>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "mine":
		mineCmd.Parse(os.Args[2:])
		cfg := config.Config{
			Data:             *mineData,
			Zeros:            *mineZeros,
			IncludeTimestamp: *mineTimestamp,
			OutputPath:       *mineOut,
			ArchiveDir:       *mineArchive,
			Workers:          *mineWorkers,
			MaxNonce:         *mineMaxNonce,
		}
		runMine(cfg)
	case "verify":
		verifyCmd.Parse(os.Args[2:])
		if !runVerify(*verifyIn, *verifyTimestamp) {
			os.Exit(1)
		}
	default:
		fmt.Println("Unknown command:", os.Args[1])
		os.Exit(1)
	}
}

func runMine(cfg config.Config) {
	log.Printf("Mining %d leading zero bits over %q...", cfg.Zeros, cfg.Data)

	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	m := miner.New(hasher, miner.Options{
		IncludeTimestamp: cfg.IncludeTimestamp,
		Workers:          cfg.Workers,
		MaxNonce:         cfg.MaxNonce,
	})

	rec, err := m.CreateBlock(context.Background(), cfg.Data, cfg.Zeros)
	if err != nil {
		log.Fatalf("Mining failed: %v", err)
	}

	if err := store.WriteFile(cfg.OutputPath, rec); err != nil {
		log.Fatalf("Failed to persist record: %v", err)
	}
	log.Printf("Record written to %s", cfg.OutputPath)

	if cfg.ArchiveDir != "" {
		archive, err := store.OpenArchive(cfg.ArchiveDir)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer archive.Close()
		if err := archive.SaveRecord(rec); err != nil {
			log.Fatalf("Failed to archive record: %v", err)
		}
		log.Printf("Record archived under %s", cfg.ArchiveDir)
	}

	// Read the record back and re-verify, proving the round trip.
	if !runVerify(cfg.OutputPath, cfg.IncludeTimestamp) {
		log.Fatalf("Freshly mined record failed verification")
	}
}

func runVerify(path string, withTimestamp bool) bool {
	hasher := consensus.NewSHA256Hasher()
	defer hasher.Close()

	v := verify.New(hasher, withTimestamp)
	ok := v.File(path)
	if ok {
		log.Printf("Record at %s verified OK", path)
	} else {
		log.Printf("Record at %s is INVALID", path)
	}
	return ok
}
