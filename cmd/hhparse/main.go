// Command hhparse normalizes a hand history from a file or stdin and prints
// the seats, actions and spend ledger.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"hhnorm/internal/cards"
	hhcfg "hhnorm/internal/config"
	"hhnorm/internal/hand"
	"hhnorm/internal/normalize"
	"hhnorm/internal/pkg/jsonutil"
	"hhnorm/internal/replay"
	"hhnorm/internal/rules"

	"github.com/pterm/pterm"
)

func main() {
	var (
		file       = flag.String("f", "", "hand history file (default stdin)")
		configPath = flag.String("config", "", "optional config file for normalization rules")
		asJSON     = flag.Bool("json", false, "print the normalized hand as JSON")
		withReplay = flag.Bool("replay", false, "print pot and stacks after every action")
	)
	flag.Parse()

	text, err := readInput(*file)
	if err != nil {
		pterm.Error.Printfln("read input: %v", err)
		os.Exit(1)
	}
	src, err := rulesSource(*configPath)
	if err != nil {
		pterm.Error.Printfln("load config: %v", err)
		os.Exit(1)
	}

	res := normalize.New(src).FromTextWithDetails(text)
	if *asJSON {
		raw, err := json.Marshal(res.Hand)
		if err != nil {
			pterm.Error.Printfln("encode hand: %v", err)
			os.Exit(1)
		}
		fmt.Println(jsonutil.Pretty(raw))
		return
	}

	out := printer{w: os.Stdout}
	if err := out.hand(res); err != nil {
		pterm.Error.Printfln("render: %v", err)
		os.Exit(1)
	}
	if *withReplay {
		if err := out.replay(res.Hand); err != nil {
			pterm.Error.Printfln("render replay: %v", err)
			os.Exit(1)
		}
	}
}

func readInput(path string) (string, error) {
	if strings.TrimSpace(path) == "" || path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		return string(raw), err
	}
	raw, err := os.ReadFile(path)
	return string(raw), err
}

func rulesSource(path string) (rules.Source, error) {
	if strings.TrimSpace(path) == "" {
		return rules.Static(rules.Default()), nil
	}
	cfg, err := hhcfg.Load(path)
	if err != nil {
		return nil, err
	}
	if p := strings.TrimSpace(cfg.Normalize.RulesPath); p != "" {
		return rules.NewRegistry(p, cfg.Normalize.Rules())
	}
	return rules.Static(cfg.Normalize.Rules()), nil
}

// printer 把 pterm 的输出定向到 w，测试时写入 buffer。
type printer struct {
	w io.Writer
}

func (p printer) section(title string) {
	pterm.DefaultSection.WithWriter(p.w).Println(title)
}

func (p printer) table(data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithWriter(p.w).WithData(data).Render()
}

func (p printer) info(msg string) {
	pterm.Info.WithWriter(p.w).Println(msg)
}

func seatRows(res normalize.Result) pterm.TableData {
	h := res.Hand
	board := h.Board.Cards()
	rows := pterm.TableData{{"Pos", "Name", "Stack (BB)", "Spent (BB)", "Hole", "Made hand"}}
	for _, p := range h.Players {
		spent := "-"
		if v, ok := res.Ledger.Spent[p.Pos]; ok {
			spent = replay.FormatBB(v)
			if res.Ledger.AllIn[p.Pos] {
				spent += " (all-in)"
			} else if res.Ledger.Short[p.Pos] {
				spent += " (short)"
			}
		}
		made, _ := cards.Describe(p.Hole, board)
		rows = append(rows, []string{
			string(p.Pos), p.Name, replay.FormatBB(p.Stack), spent, strings.Join(p.Hole, " "), made,
		})
	}
	return rows
}

func actionRows(h hand.ParsedHand) pterm.TableData {
	rows := pterm.TableData{{"#", "Street", "Pos", "Move", "Size (BB)"}}
	for i, a := range h.Actions {
		size := ""
		if a.Size != nil {
			size = replay.FormatBB(*a.Size)
		}
		rows = append(rows, []string{fmt.Sprint(i + 1), string(a.Street), string(a.Pos), a.Move.String(), size})
	}
	return rows
}

func (p printer) hand(res normalize.Result) error {
	h := res.Hand
	p.section("Players")
	if err := p.table(seatRows(res)); err != nil {
		return err
	}
	if board := h.Board.Cards(); len(board) > 0 {
		p.info("board: " + strings.Join(board, " "))
	}

	p.section("Actions")
	if len(h.Actions) == 0 {
		p.info("no actions recognized")
		return nil
	}
	if err := p.table(actionRows(h)); err != nil {
		return err
	}
	if res.Extraction.Compact {
		p.info("actions came from the compact one-line notation")
	}
	if h.BlindsApplied {
		p.info("blind posts applied")
	}
	return nil
}

func (p printer) replay(h hand.ParsedHand) error {
	p.section("Replay")
	header := []string{"Step", "Label", "Pot"}
	for _, pos := range hand.Positions {
		header = append(header, string(pos))
	}
	data := pterm.TableData{header}
	for _, f := range replay.Frames(h) {
		row := []string{fmt.Sprint(f.Step), f.Label, replay.FormatBB(f.Pot)}
		for _, pos := range hand.Positions {
			row = append(row, replay.FormatBB(f.Stacks[pos]))
		}
		data = append(data, row)
	}
	return p.table(data)
}
