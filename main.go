// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"log"
	"os"

	"github.com/gopxl/mainthread/v2"

	"gosnd/host"
)

func main() {
	flag.Parse()
	mainthread.Run(func() {
		if err := host.Run(os.Stdin); err != nil {
			log.Fatal(err)
		}
	})
}
