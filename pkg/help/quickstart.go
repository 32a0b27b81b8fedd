package help

const QuickstartYAML = `# ninja-snatch Quick Start

modes:
  loose: "Snap values to the nearest scale step (mt-4, text-lg) (default)"
  strict: "Keep exact values as arbitrary classes (mt-[17px])"

formats:
  json: "Full snapshot: annotated tree, patterns, css, stats (default)"
  yaml: "Same as json, as YAML"
  html: "Standalone page with utility classes and the relevant CSS"
  jsx: "React component (className, pattern comments)"

commands:
  basic_extract: |
    ninja-snatch extract --url "https://example.com" --selector ".product-grid"

  local_file: |
    ninja-snatch extract --file page.html --selector "#hero" --format html

  strict_mode: |
    ninja-snatch extract --url "https://example.com" --selector "header" --mode strict

  rendered_page: |
    ninja-snatch extract --url "https://example.com" --selector ".cards" --live

  many_pages: |
    ninja-snatch extract --url "https://a.com,https://b.com" --selector "main" --workers 4

  patterns_only: |
    ninja-snatch patterns --url "https://example.com" --selector "ul.results"

  css_only: |
    ninja-snatch css --file page.html --selector ".card"

  history: |
    ninja-snatch db snapshots
    ninja-snatch db show <id> --format jsx
    ninja-snatch db access https://example.com

  http_api: |
    ninja-snatch serve --addr :8080
    curl -s localhost:8080/v1/extract -d '{"url":"https://example.com","selector":".card","format":"html"}'

key_files:
  - "snatch-results/<id>/snapshot.json (full snapshot)"
  - "snatch-results/<id>/snapshot.html (standalone page)"
  - "snatch-results/<id>/styles.css (relevant rules only)"
  - "snatch.yaml (optional config: threshold, weights, mode, budgets)"

invariants:
  - "Elements without accessible computed style abort analysis; the snapshot falls back to a raw clone"
  - "Cross-origin stylesheets and closed shadow roots are skipped and counted, never fatal"
  - "Colors farther than color_threshold from every palette entry emit no class"
  - "Selectors that cannot be parsed are excluded from the CSS output and counted"
`
