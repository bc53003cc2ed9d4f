// Copyright 2026 The veil Authors
// This file is part of the veil library.
//
// The veil library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The veil library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the veil library. If not, see <http://www.gnu.org/licenses/>.

// veil is a command-line front end for the transaction execution engine:
// it seeds a world state from a genesis allocation and replays transaction
// batches against it.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/veilchain/veil/core"
	"github.com/veilchain/veil/core/state"
	"github.com/veilchain/veil/core/types"
	"github.com/veilchain/veil/core/vm"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Directory holding the world-state database (in-memory state when empty)",
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging level (trace|debug|info|warn|error)",
		Value: "info",
	}
	genesisFlag = &cli.StringFlag{
		Name:  "genesis",
		Usage: "JSON file with the initial account allocation",
	}
)

var (
	initCommand = &cli.Command{
		Name:      "init",
		Usage:     "Seed the world-state database from a genesis allocation",
		ArgsUsage: "<genesis.json>",
		Flags:     []cli.Flag{configFlag, dataDirFlag, verbosityFlag},
		Action:    initGenesis,
	}
	runCommand = &cli.Command{
		Name:      "run",
		Usage:     "Process a batch of transactions against the world state",
		ArgsUsage: "<transactions.json>",
		Flags:     []cli.Flag{configFlag, dataDirFlag, verbosityFlag, genesisFlag},
		Action:    runBatch,
	}
)

func main() {
	app := &cli.App{
		Name:     "veil",
		Usage:    "the veil transaction execution engine",
		Commands: []*cli.Command{initCommand, runCommand},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func makeLogger(ctx *cli.Context) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(ctx.String(verbosityFlag.Name))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid verbosity: %w", err)
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

func makeConfig(ctx *cli.Context) (veilConfig, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	return cfg, nil
}

// openState returns the configured world state and a release function.
func openState(cfg veilConfig) (state.WorldState, func() error, error) {
	if cfg.DataDir == "" {
		return state.NewMemoryState(), func() error { return nil }, nil
	}
	db, err := state.OpenLevelDB(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening state database: %w", err)
	}
	return db, db.Close, nil
}

func initGenesis(ctx *cli.Context) error {
	logger, err := makeLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return fmt.Errorf("init requires exactly one genesis file argument")
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()
	alloc, err := core.DecodeGenesisAlloc(f)
	if err != nil {
		return err
	}

	ws, release, err := openState(cfg)
	if err != nil {
		return err
	}
	defer release()

	if err := core.ApplyGenesisAlloc(ws, alloc, nil); err != nil {
		return err
	}
	logger.Info().Int("accounts", len(alloc)).Msg("genesis state written")
	return nil
}

func runBatch(ctx *cli.Context) error {
	logger, err := makeLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return fmt.Errorf("run requires exactly one transaction batch argument")
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	ws, release, err := openState(cfg)
	if err != nil {
		return err
	}
	defer release()

	if file := ctx.String(genesisFlag.Name); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		alloc, err := core.DecodeGenesisAlloc(f)
		f.Close()
		if err != nil {
			return err
		}
		if err := core.ApplyGenesisAlloc(ws, alloc, nil); err != nil {
			return err
		}
	}

	raw, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	var txs []*types.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		return fmt.Errorf("decoding transaction batch: %w", err)
	}

	processor := core.NewTransactionProcessor(&cfg.Protocol, vm.NoopExecutor{}, logger)
	for i, tx := range txs {
		res := processor.ProcessTransaction(ws, nil, vm.BlockContext{}, tx.Hash(), tx, nil, nil)
		event := logger.Info().
			Int("index", i).
			Stringer("tx", tx.Hash()).
			Stringer("status", res.Status).
			Uint64("gasUsed", res.GasUsed.Uint64())
		if res.Err != nil {
			event = event.Err(res.Err)
		}
		event.Msg("transaction processed")
	}
	return nil
}
