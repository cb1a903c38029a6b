package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

var (
	zetoDataDir = btcutil.AppDataDir("zeto-cli", false)
	statePath   = filepath.Join(zetoDataDir, "state.json")
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "zeto"
	app.Usage = "Command line interface for zetod parties and operators"
	app.Commands = append(
		app.Commands,
		&config,
		&info,
		&deal,
		&ledger,
		&webhook,
		&listwebhooks,
	)
	return app
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(statePath), os.ModeDir|0755); err != nil {
		return err
	}

	currentData := map[string]string{}
	if _, err := os.Stat(statePath); err == nil {
		if currentData, err = getState(); err != nil {
			return err
		}
	}

	jsonString, err := json.Marshal(merge(currentData, data))
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string, 0)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func printRespJSON(resp json.RawMessage) {
	if len(resp) <= 0 {
		return
	}

	var v interface{}
	if err := json.Unmarshal(resp, &v); err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	jsonStr, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[zeto] %v\n", err)
	}
	os.Exit(1)
}
