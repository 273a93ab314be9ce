package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-runewidth"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/rivo/uniseg"

	"github.com/npillmayer/termshape"
	"github.com/npillmayer/termshape/grid"
	"github.com/npillmayer/termshape/render"
)

// tracer traces with key 'termshape.cli'
func tracer() tracing.Trace {
	return tracing.Select("termshape.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.termshape.cli": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	family := flag.String("font", "monospace", "Font family to shape with")
	cols := flag.Int("cols", 80, "Grid columns")
	rows := flag.Int("rows", 24, "Grid rows")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the terminal shaping CLI")

	engine, err := termshape.NewWithSystemFonts("")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(2)
	}
	font := *engine.Settings().Font
	font.Family = *family
	engine.SetFont(font)
	engine.Resize(*cols, *rows)

	// set up REPL
	repl, err := readline.New("ts > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, engine: engine}

	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	engine  *render.Engine
	repl    *readline.Instance
	inFrame bool
	frame   *render.Frame
}

func (intp *Intp) String() string {
	cells := intp.engine.Settings().CellCount
	state := "idle"
	if intp.inFrame {
		state = "painting"
	}
	return fmt.Sprintf("( %dx%d | %s )", cells.X, cells.Y, state)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		err, quit := intp.execute(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

var commandFn = map[string]func(*Intp, []string) (error, bool){
	"quit":   quitOp,
	"help":   helpOp,
	"resize": resizeOp,
	"brush":  brushOp,
	"scroll": scrollOp,
	"begin":  beginOp,
	"paint":  paintOp,
	"sel":    selOp,
	"cursor": cursorOp,
	"end":    endOp,
	"rows":   rowsOp,
}

func (intp *Intp) execute(line string) (error, bool) {
	args := strings.Fields(line)
	f, ok := commandFn[strings.ToLower(args[0])]
	if !ok {
		return helpOp(intp, nil)
	}
	return f(intp, args[1:])
}

func quitOp(intp *Intp, args []string) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

func helpOp(intp *Intp, args []string) (error, bool) {
	pterm.Println("commands:")
	pterm.Println("  resize COLS ROWS        set the grid dimensions")
	pterm.Println("  brush FG BG [b] [i]     set colors (hex) and bold/italic")
	pterm.Println("  scroll K                scroll by K rows (negative = up)")
	pterm.Println("  begin                   start a frame")
	pterm.Println("  paint ROW COL TEXT...   paint text at (row, col)")
	pterm.Println("  sel ROW FROM TO         mark a selection span")
	pterm.Println("  cursor ROW COL          place the cursor")
	pterm.Println("  end                     finish the frame and show damage")
	pterm.Println("  rows                    dump the shaped rows of the last frame")
	pterm.Println("  quit                    leave")
	return nil, false
}

func resizeOp(intp *Intp, args []string) (error, bool) {
	if len(args) < 2 {
		return errors.New("usage: resize COLS ROWS"), false
	}
	cols, err1 := strconv.Atoi(args[0])
	rows, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || cols <= 0 || rows <= 0 {
		return errors.New("resize: invalid dimensions"), false
	}
	intp.engine.Resize(cols, rows)
	tracer().Infof("grid resized to %dx%d", cols, rows)
	return nil, false
}

func brushOp(intp *Intp, args []string) (error, bool) {
	if len(args) < 2 {
		return errors.New("usage: brush FG BG [bold] [italic]"), false
	}
	fg, err1 := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 32)
	bg, err2 := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 32)
	if err1 != nil || err2 != nil {
		return errors.New("brush: colors must be hex values"), false
	}
	var bold, italic bool
	for _, a := range args[2:] {
		switch strings.ToLower(a) {
		case "bold", "b":
			bold = true
		case "italic", "i":
			italic = true
		}
	}
	return intp.engine.SetBrushes(uint32(fg), uint32(bg), bold, italic), false
}

func scrollOp(intp *Intp, args []string) (error, bool) {
	if len(args) < 1 {
		return errors.New("usage: scroll K"), false
	}
	k, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New("scroll: invalid offset"), false
	}
	intp.engine.InvalidateScroll(k)
	return nil, false
}

func beginOp(intp *Intp, args []string) (error, bool) {
	if err := intp.engine.BeginFrame(); err != nil {
		return err, false
	}
	intp.inFrame = true
	return nil, false
}

func paintOp(intp *Intp, args []string) (error, bool) {
	if len(args) < 3 {
		return errors.New("usage: paint ROW COL TEXT..."), false
	}
	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return errors.New("paint: invalid coordinates"), false
	}
	text := strings.Join(args[2:], " ")
	clusters := splitClusters(text)
	return intp.engine.PaintLine(clusters, grid.Point{X: col, Y: row}), false
}

func selOp(intp *Intp, args []string) (error, bool) {
	if len(args) < 3 {
		return errors.New("usage: sel ROW FROM TO"), false
	}
	row, err1 := strconv.Atoi(args[0])
	from, err2 := strconv.Atoi(args[1])
	to, err3 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return errors.New("sel: invalid coordinates"), false
	}
	return intp.engine.PaintSelection(grid.Rect{Left: from, Top: row, Right: to, Bottom: row + 1}), false
}

func cursorOp(intp *Intp, args []string) (error, bool) {
	if len(args) < 2 {
		return errors.New("usage: cursor ROW COL"), false
	}
	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return errors.New("cursor: invalid coordinates"), false
	}
	opts := render.CursorOptions{
		Coord: grid.Point{X: col, Y: row},
		Type:  grid.CursorFullBox,
		IsOn:  true,
	}
	return intp.engine.PaintCursor(opts), false
}

func endOp(intp *Intp, args []string) (error, bool) {
	frame, err := intp.engine.EndFrame()
	if err != nil {
		return err, false
	}
	intp.inFrame = false
	intp.frame = frame
	d := frame.DirtyRect
	pterm.Printf("dirty rect: cols [%d..%d) rows [%d..%d), scroll %+d\n",
		d.Left, d.Right, d.Top, d.Bottom, frame.ScrollOffset)
	return nil, false
}

func rowsOp(intp *Intp, args []string) (error, bool) {
	if intp.frame == nil {
		return errors.New("no finished frame yet"), false
	}
	for y := range intp.frame.Rows {
		row := &intp.frame.Rows[y]
		if row.GlyphCount() == 0 {
			continue
		}
		var advance float32
		for _, a := range row.GlyphAdvances {
			advance += a
		}
		pterm.Printf("row %2d: %3d glyphs, %d font runs, %.1f DIP, y = [%d..%d) px\n",
			y, row.GlyphCount(), len(row.Mappings), advance, row.Top, row.Bottom)
		for _, m := range row.Mappings {
			pterm.Printf("        glyphs [%d..%d) in %s @ %.1f DIP\n",
				m.GlyphFrom, m.GlyphTo, m.Face.Family(), m.EmSize)
		}
	}
	return nil, false
}

// splitClusters cuts painted text into grapheme clusters with their cell
// column widths.
func splitClusters(text string) []render.Cluster {
	var clusters []render.Cluster
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cl := g.Runes()
		cols := runewidth.StringWidth(string(cl))
		if cols < 1 {
			cols = 1
		}
		clusters = append(clusters, render.Cluster{Text: cl, Cols: cols})
	}
	return clusters
}
