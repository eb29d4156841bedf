// Command pytylectl is the PyTyle client: it sends one action to the
// running pytyled daemon over its Unix socket and prints the response,
// per spec.md §6 ("exit code 0 on success, non-zero on connection
// failure"). Grounded on internal/ipc/client.go's Send/SendAction.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pytyle/pytyle/internal/ipc"
)

func main() {
	screen := flag.Int("screen", -1, "screen id to target (default: the currently active screen)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	client, err := ipc.NewClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pytylectl: %v\n", err)
		os.Exit(1)
	}

	var req ipc.Request
	switch args[0] {
	case "status":
		req = ipc.Request{Action: ipc.ActionStatus}
	case "reload":
		req = ipc.Request{Action: ipc.ActionReload}
	case "config":
		if len(args) < 3 || args[1] != "explain" {
			fmt.Fprintln(os.Stderr, "pytylectl: usage: pytylectl config explain <path>")
			os.Exit(2)
		}
		req = ipc.Request{Action: ipc.ActionExplain, Path: args[2]}
	default:
		req = ipc.Request{Action: args[0]}
	}
	if *screen >= 0 {
		req.Screen = screen
	}

	resp, err := client.Send(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pytylectl: %v\n", err)
		os.Exit(1)
	}

	if !resp.OK {
		fmt.Fprintf(os.Stderr, "pytylectl: %s\n", resp.Error)
		os.Exit(1)
	}

	if len(resp.Data) > 0 {
		var pretty any
		if err := json.Unmarshal(resp.Data, &pretty); err == nil {
			out, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Println(string(out))
		} else {
			fmt.Println(string(resp.Data))
		}
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: pytylectl [--screen N] <action>

Sends a single action to the running pytyled daemon.

Actions include the dispatch command vocabulary (tile, untile, cycle,
cycle_tiler, reset, add_master, remove_master, make_active_master,
win_master, win_previous, win_next, switch_previous, switch_next,
max_all, restore_all, master_increase, master_decrease,
screen_focus.N, screen_put.N, tile.<layout>), plus:

  status              show every screen's layout and tiling state
  reload               reload configuration from disk
  config explain PATH  show a config value and which file set it`)
}
