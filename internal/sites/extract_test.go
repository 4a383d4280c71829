package sites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chapterHTML = `<html><body>
<div class="header"><img src="/logo.png"></div>
<div id="all">
  <img class="img-responsive" data-src=" https://cdn.example.com/op/1045/01.jpg " src="/loader.gif">
  <img class="img-responsive" data-src="
      https://cdn.example.com/op/1045/02.jpg">
  <img class="img-responsive" src="pages/03.png">
</div>
</body></html>`

func TestSelectorExtractor_Extract(t *testing.T) {
	ex := SelectorExtractor{Container: "div#all", Attrs: []string{"data-src", "src"}}

	page, err := ex.Extract([]byte(chapterHTML), "https://www.scan-vf.net/index.php/one_piece/chapitre-1045")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.example.com/op/1045/01.jpg",
		"https://cdn.example.com/op/1045/02.jpg",
		"https://www.scan-vf.net/index.php/one_piece/pages/03.png",
	}, page.Images)
	assert.Equal(t, ".jpg", page.Ext)
}

func TestSelectorExtractor_Failures(t *testing.T) {
	ex := SelectorExtractor{Container: "div#all", Attrs: []string{"data-src"}}

	tests := map[string]string{
		"missing container": `<html><body><div id="other"><img data-src="a.jpg"></div></body></html>`,
		"empty container":   `<html><body><div id="all"></div></body></html>`,
		"only data URIs":    `<html><body><div id="all"><img data-src="data:image/gif;base64,R0lG"></div></body></html>`,
	}

	for name, html := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ex.Extract([]byte(html), "https://example.com/c/1")
			assert.ErrorIs(t, err, ErrExtractionFailed)
		})
	}
}

func TestPage_ExtFor(t *testing.T) {
	p := Page{Ext: ".png"}

	assert.Equal(t, ".webp", p.ExtFor("https://cdn.example.com/a/01.WEBP?token=1"))
	assert.Equal(t, ".png", p.ExtFor("https://cdn.example.com/a/image"))
	assert.Equal(t, ".jpg", Page{}.ExtFor("https://cdn.example.com/a/image"))
}

const scriptHTML = `<html><head>
<script src="/static/reader.js"></script>
<script>
  var site_logo = "/img/logo.png";
  var chapter_preloaded_images = ["https:\/\/cdn.example.com\/op\/7\/01.webp","https:\/\/cdn.example.com\/op\/7\/02.webp?v=2"];
  var again = ['/op/7/01.webp'];
</script>
</head><body><div id="reader"></div></body></html>`

func TestScriptExtractor_Extract(t *testing.T) {
	page, err := ScriptExtractor{}.Extract([]byte(scriptHTML), "https://cdn.example.com/read/7")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.example.com/op/7/01.webp",
		"https://cdn.example.com/op/7/02.webp?v=2",
	}, page.Images)
	assert.Equal(t, ".webp", page.Ext)

	_, err = ScriptExtractor{}.Extract([]byte(`<script>var x = 1;</script>`), "https://x")
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestFirstOf(t *testing.T) {
	ex := FirstOf{
		SelectorExtractor{Container: "div#all", Attrs: []string{"data-src", "src"}},
		ScriptExtractor{},
	}

	page, err := ex.Extract([]byte(scriptHTML), "https://cdn.example.com/read/7")
	require.NoError(t, err)
	assert.Len(t, page.Images, 2)

	page, err = ex.Extract([]byte(chapterHTML), "https://www.scan-vf.net/index.php/one_piece/chapitre-1045")
	require.NoError(t, err)
	assert.Len(t, page.Images, 3)

	_, err = ex.Extract([]byte(`<html></html>`), "https://x")
	assert.ErrorIs(t, err, ErrExtractionFailed)

	_, err = FirstOf{}.Extract(nil, "https://x")
	assert.ErrorIs(t, err, ErrExtractionFailed)
}
