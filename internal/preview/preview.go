// Package preview renders committed chunk meshes as a top-down SVG map.
package preview

import (
	"errors"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/golang/geo/r3"

	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/world"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("preview: no geometry")

const margin = 10

// Drawing order, bottom to top.
var layerOrder = []mesh.LayerID{
	mesh.LayerTerrain,
	mesh.LayerWater,
	mesh.LayerShore,
	mesh.LayerEstuary,
	mesh.LayerRivers,
	mesh.LayerMarsh,
	mesh.LayerFloodPlains,
	mesh.LayerOasis,
	mesh.LayerRoads,
	mesh.LayerCulture,
}

var layerFill = map[mesh.LayerID]string{
	mesh.LayerWater:       "fill:rgb(40,90,160)",
	mesh.LayerShore:       "fill:rgb(70,130,190);fill-opacity:0.7",
	mesh.LayerEstuary:     "fill:rgb(60,120,180);fill-opacity:0.8",
	mesh.LayerRivers:      "fill:rgb(60,130,210)",
	mesh.LayerMarsh:       "fill:rgb(90,110,70);fill-opacity:0.6",
	mesh.LayerFloodPlains: "fill:rgb(150,160,60);fill-opacity:0.5",
	mesh.LayerOasis:       "fill:rgb(50,170,140);fill-opacity:0.8",
	mesh.LayerRoads:       "fill:rgb(140,100,60)",
	mesh.LayerCulture:     "fill:rgb(200,40,40);fill-opacity:0.35",
}

var decorationFill = map[world.DecorationKind]string{
	world.DecorationTree: "fill:rgb(30,90,30)",
	world.DecorationPalm: "fill:rgb(60,140,40)",
	world.DecorationRock: "fill:rgb(110,110,110)",
	world.DecorationReed: "fill:rgb(150,150,80)",
	world.DecorationRuin: "fill:rgb(90,60,50)",
}

// Options controls the output size.
type Options struct {
	Width int // Pixel width; height follows the map aspect ratio
}

// DefaultOptions returns a 1200 pixel wide preview.
func DefaultOptions() Options {
	return Options{Width: 1200}
}

// projection maps world XZ to screen pixels, north up.
type projection struct {
	minX, maxZ, scale float64
}

func (p projection) point(v r3.Vector) (int, int) {
	x := (v.X-p.minX)*p.scale + margin
	y := (p.maxZ-v.Z)*p.scale + margin
	return int(math.Round(x)), int(math.Round(y))
}

// Render draws every committed chunk and the decorations into w.
func Render(w io.Writer, chunks []*mesh.Chunk, decorations []world.Decoration, opts Options) error {
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, ch := range chunks {
		if !ch.Committed() {
			return fmt.Errorf("render chunk %d: %w", ch.ID, mesh.ErrNotCommitted)
		}
		for _, v := range ch.Layer(mesh.LayerTerrain).Positions {
			minX, maxX = min(minX, v.X), max(maxX, v.X)
			minZ, maxZ = min(minZ, v.Z), max(maxZ, v.Z)
			minY, maxY = min(minY, v.Y), max(maxY, v.Y)
		}
	}
	if math.IsInf(minX, 1) || maxX == minX {
		return ErrEmpty
	}
	if opts.Width <= 2*margin {
		opts = DefaultOptions()
	}

	scale := float64(opts.Width-2*margin) / (maxX - minX)
	height := int(math.Ceil((maxZ-minZ)*scale)) + 2*margin
	proj := projection{minX: minX, maxZ: maxZ, scale: scale}

	canvas := svg.New(w)
	canvas.Start(opts.Width, height)
	canvas.Rect(0, 0, opts.Width, height, "fill:rgb(20,20,30)")

	xs, ys := make([]int, 3), make([]int, 3)
	for _, id := range layerOrder {
		canvas.Gid(id.String())
		for _, ch := range chunks {
			l := ch.Layer(id)
			for t := 0; t+2 < len(l.Triangles); t += 3 {
				var ySum float64
				for k := 0; k < 3; k++ {
					v := l.Positions[l.Triangles[t+k]]
					xs[k], ys[k] = proj.point(v)
					ySum += v.Y
				}
				style, ok := layerFill[id]
				if !ok {
					style = terrainFill(ySum/3, minY, maxY)
				}
				canvas.Polygon(xs, ys, style)
			}
		}
		canvas.Gend()
	}

	canvas.Gid("decorations")
	for _, d := range decorations {
		x, y := proj.point(d.Position)
		r := max(1, int(math.Round(d.Scale*scale*0.6)))
		canvas.Circle(x, y, r, decorationFill[d.Kind])
	}
	canvas.Gend()
	canvas.End()
	return nil
}

// terrainFill shades terrain from lowland green to highland grey by height.
func terrainFill(y, minY, maxY float64) string {
	t := 0.0
	if maxY > minY {
		t = (y - minY) / (maxY - minY)
	}
	t = max(0, min(1, t))
	r := int(70 + t*110)
	g := int(120 + t*50)
	b := int(60 + t*110)
	return fmt.Sprintf("fill:rgb(%d,%d,%d)", r, g, b)
}
