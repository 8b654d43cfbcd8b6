// paperterm is the interactive terminal client for the paperbroker
// simulator. It talks to the database directly through the same
// services the REST facade uses.
package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/log"
	"github.com/paperstreet/paperbroker/migration"
	"github.com/paperstreet/paperbroker/pbreg"
)

func main() {
	app := cli.NewApp()
	app.Name = "paperterm"
	app.Usage = "terminal client for the paperbroker simulator"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "db",
			Value: "paperbroker.db",
			Usage: "path to the sqlite database",
		},
	}
	app.Action = func(c *cli.Context) error {
		os.Setenv("DB_DRIVER", "sqlite3")
		os.Setenv("DB_PATH", c.String("db"))

		if err := migration.Migration(db.DB()).Migrate(); err != nil {
			return err
		}
		defer db.DB().Close()

		m := newMenu(pbreg.Services, os.Stdin, os.Stdout)
		m.run()
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal("paperterm exited", "error", err)
	}
}
