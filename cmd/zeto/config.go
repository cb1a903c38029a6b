package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
	httpinterface "github.com/zeto-network/zeto-escrowd/internal/interfaces/http"
)

var (
	rpcFlag = cli.StringFlag{
		Name:  "rpcserver",
		Usage: "zetod daemon url",
		Value: "http://localhost:9945",
	}

	tokenFlag = cli.StringFlag{
		Name:  "token",
		Usage: "bearer token identifying the caller",
		Value: "",
	}

	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "caller identity, used only if the daemon runs without auth",
		Value: "",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the zeto CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&rpcFlag,
				&tokenFlag,
				&callerFlag,
			},
		},
		{
			Name:   "token",
			Usage:  "sign a bearer token for an identity and store it in the local state",
			Action: configTokenAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "secret",
					Usage:    "the auth secret of the daemon",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "identity",
					Usage:    "the identity of the caller",
					Required: true,
				},
				&cli.BoolFlag{
					Name:  "operator",
					Usage: "grant access to operator routes",
				},
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key + ": " + state[key])
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		"rpcserver": c.String("rpcserver"),
		"token":     c.String("token"),
		"caller":    c.String("caller"),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)
	return nil
}

func configTokenAction(c *cli.Context) error {
	token, err := httpinterface.NewToken(
		c.String("secret"), c.String("identity"), c.Bool("operator"),
	)
	if err != nil {
		return err
	}
	if err := setState(map[string]string{"token": token}); err != nil {
		return err
	}

	fmt.Println("token has been set")
	return nil
}
