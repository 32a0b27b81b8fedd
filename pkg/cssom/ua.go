package cssom

// userAgentCSS is the subset of browser defaults that affects normalized
// output: display types, heading and block spacing, and emphasis.
const userAgentCSS = `
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, dl, dt, dd, form, fieldset,
header, footer, section, article, aside, nav, main, figure, figcaption, blockquote,
pre, address, details, summary, hr, legend, hgroup, search, dialog, menu {
  display: block;
}
head, script, style, template, noscript, title, meta, link, base, datalist, [hidden] {
  display: none;
}
template[shadowrootmode="open"] { display: contents; }
li { display: list-item; }
table { display: table; border-collapse: separate; }
thead { display: table-header-group; }
tbody { display: table-row-group; }
tfoot { display: table-footer-group; }
tr { display: table-row; }
td, th { display: table-cell; padding: 1px; }
th { font-weight: bold; text-align: center; }
caption { display: table-caption; text-align: center; }
img, input, button, select, textarea, video, iframe, canvas, svg { display: inline-block; }

body { margin: 8px; }
p, blockquote, figure, dl, ul, ol, pre { margin-top: 1em; margin-bottom: 1em; }
blockquote, figure { margin-left: 40px; margin-right: 40px; }
ul, ol, menu { padding-left: 40px; }
dd { margin-left: 40px; }
h1 { font-size: 2em; margin-top: 0.67em; margin-bottom: 0.67em; font-weight: bold; }
h2 { font-size: 1.5em; margin-top: 0.83em; margin-bottom: 0.83em; font-weight: bold; }
h3 { font-size: 1.17em; margin-top: 1em; margin-bottom: 1em; font-weight: bold; }
h4 { margin-top: 1.33em; margin-bottom: 1.33em; font-weight: bold; }
h5 { font-size: 0.83em; margin-top: 1.67em; margin-bottom: 1.67em; font-weight: bold; }
h6 { font-size: 0.67em; margin-top: 2.33em; margin-bottom: 2.33em; font-weight: bold; }
b, strong { font-weight: bold; }
small { font-size: smaller; }
hr { border-top-width: 1px; border-top-style: inset; margin-top: 0.5em; margin-bottom: 0.5em; }
fieldset { margin-left: 2px; margin-right: 2px; padding: 0.35em 0.75em 0.625em; border-width: 2px; border-style: groove; }
a { color: #0000ee; }
input, select, textarea, button { border-width: 2px; border-style: inset; padding: 1px 2px; }
button { padding: 1px 6px; text-align: center; border-style: outset; }
`
