package tabs

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/JoobyPM/codetabs/internal/stringutil"
)

const sampleSketch = `function setup() {
  createCanvas(%d, %d);
}

function draw() {
  background(%d);
  ellipse(mouseX, mouseY, %d, %d);
}
`

const sampleHTML = `<!DOCTYPE html>
<html>
  <head>
    <script src="p5.js"></script>
    <script src="sketch.js"></script>
  </head>
  <body></body>
</html>
`

// SampleManifest returns a manifest with placeholder panes. Captions and
// sketch constants come from faker, so a seeded faker gives a stable
// manifest.
func SampleManifest(faker *gofakeit.Faker) *Manifest {
	title := stringutil.TitleCase(strings.TrimSuffix(faker.Sentence(4), "."))
	size := faker.IntRange(10, 80)

	m := NewManifest(title)
	m.Panes = []Entry{
		{
			Name:     "sketch.js",
			Language: "javascript",
			Content: fmt.Sprintf(sampleSketch,
				faker.IntRange(200, 800), faker.IntRange(200, 600),
				faker.IntRange(0, 255), size, size),
			Caption: faker.Sentence(8) + " See [the reference](https://p5js.org/reference/).",
		},
		{
			Name:     "index.html",
			Language: "html",
			Content:  sampleHTML,
			Caption:  faker.Sentence(6),
		},
	}
	return m
}
