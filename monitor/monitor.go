package monitor

import (
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterMonitorPage mounts a small HTML status page outside the API
// group. It carries no data beyond liveness and uptime.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		uptime := time.Since(startedAt).Round(time.Second)
		c.Data(200, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>ACCANA Server Monitor</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      background: linear-gradient(135deg, #0f0f0f 0%, #1a1a2e 100%);
      color: #e0e0e0;
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      min-height: 100vh;
      padding: 20px;
    }
    .container { max-width: 720px; margin: 0 auto; }
    h1 {
      font-size: 2rem;
      background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
      -webkit-background-clip: text;
      -webkit-text-fill-color: transparent;
      margin-bottom: 2rem;
    }
    .status-card {
      background: rgba(255, 255, 255, 0.05);
      border: 1px solid rgba(255, 255, 255, 0.1);
      border-radius: 16px;
      padding: 1.5rem;
      margin-bottom: 1rem;
    }
    .ok { color: #4ade80; font-weight: 600; }
    .label { color: #9ca3af; margin-right: 0.5rem; }
  </style>
</head>
<body>
  <div class="container">
    <h1>ACCANA Server Monitor</h1>
    <div class="status-card"><span class="label">Status:</span><span class="ok">running</span></div>
    <div class="status-card"><span class="label">Uptime:</span>`+uptime.String()+`</div>
    <div class="status-card"><span class="label">Time:</span>`+time.Now().Format(time.RFC1123)+`</div>
  </div>
</body>
</html>`))
	})
}
