package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTML_ExtractsMainContent(t *testing.T) {
	html := `<html><body><header>Nav</header><main>Hello world</main></body></html>`
	assert.Equal(t, "Hello world", CleanHTML(html))
}

func TestCleanHTML_NoMainReturnsEmpty(t *testing.T) {
	html := `<html><body><div>Some content</div></body></html>`
	assert.Equal(t, "", CleanHTML(html))
}

func TestCleanHTML_DropsScriptStyleVideoImgCanvas(t *testing.T) {
	html := `<html><body><main>
		<script>alert('x')</script>
		<style>.a{color:red}</style>
		Visible text
		<video src="a.mp4"></video>
		<img src="a.png">
		<canvas></canvas>
	</main></body></html>`

	assert.Equal(t, "Visible text", CleanHTML(html))
}

func TestCleanHTML_CollapsesWhitespace(t *testing.T) {
	html := "<main>  line one  \n\n  line   two  </main>"
	assert.Equal(t, "line one line two", CleanHTML(html))
}

func TestCleanHTML_ConcatenatesMultipleMains(t *testing.T) {
	html := `<main>first</main><div><main>second</main></div>`
	assert.Equal(t, "first second", CleanHTML(html))
}
