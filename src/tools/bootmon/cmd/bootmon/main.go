package main

import (
	"fmt"
	"io"
	"os"

	tty "github.com/mattn/go-tty"
	flag "github.com/spf13/pflag"

	"awaken/src/lib/trust"
	"awaken/src/tools/bootmon"
)

var device = flag.StringP("device", "d", "", "serial device the board's console is attached to")
var file = flag.StringP("file", "f", "", "read a saved console log instead of a device")
var verbose = flag.IntP("verbosity", "v", 0, "verbosity level: 0 terse (default), 1 debug info, 2 show everything")

func main() {
	flag.Parse()
	if (*device == "") == (*file == "") {
		fmt.Fprintln(os.Stderr, "usage: bootmon (-d <serial device> | -f <console log>)")
		flag.PrintDefaults()
		os.Exit(2)
	}
	log, err := trust.NewZapLogr(*verbose, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var in io.Reader
	if *device != "" {
		t, err := tty.OpenDevice(*device)
		if err != nil {
			log.Error(err, "opening serial device", "device", *device)
			os.Exit(1)
		}
		defer t.Close()
		restore := t.MustRaw()
		defer restore()
		in = t.Input()
	} else {
		fp, err := os.Open(*file)
		if err != nil {
			log.Error(err, "opening console log")
			os.Exit(1)
		}
		defer fp.Close()
		in = fp
	}

	m := bootmon.NewMonitor(os.Stdout, log)
	if err := m.Run(in); err != nil {
		log.Error(err, "reading console")
	}
	s := m.Summary()
	log.Info("console closed", "lines", s.Lines, "boots", s.Boots, "exceptions", len(s.Diagnostics))
}
