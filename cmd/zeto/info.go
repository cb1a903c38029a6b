package main

import "github.com/urfave/cli/v2"

var info = cli.Command{
	Name:   "info",
	Usage:  "get the fee schedule and fee recipient of the daemon",
	Action: infoAction,
}

func infoAction(ctx *cli.Context) error {
	client, err := getDaemonClient()
	if err != nil {
		return err
	}

	reply, err := client.get("/v1/info")
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
