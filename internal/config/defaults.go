package config

// DefaultConfigYAML is written by `riskview init`. Values mirror the loader defaults.
const DefaultConfigYAML = `# riskview configuration
#
# Every value can be overridden with an environment variable, e.g.
#   RISKVIEW_ANALYZER_BASE_URL=https://analyzer.example.com

analyzer:
  # Base URL of the narrative-risk analysis service. POST {base_url}/analyze
  base_url: http://localhost:8000
  # Analyses fetch pages and query several search services; allow time.
  timeout: 90s
  user_agent: riskview

log:
  level: info      # debug, info, warn, error
  format: auto     # auto, text, json
  # The interactive UI writes its log here instead of the terminal.
  # file: ~/.local/state/riskview/riskview.log

ui:
  theme: dark          # dark, light
  no_color: false
  output: auto         # auto, tui, plain, json, yaml
  glamour_style: auto  # auto, dark, light, dracula, notty, ascii

history:
  enabled: true
  # path: ~/.local/state/riskview/history.db
  limit: 200

mock:
  addr: 127.0.0.1:8000
  latency: 750ms
  metrics: true

analyze:
  concurrency: 4
`
