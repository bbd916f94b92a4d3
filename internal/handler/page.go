package handler

import "html/template"

type pageRow struct {
	Rank       int
	DeviceName string
	DistanceKm string // formatted to 2 decimals
	SpeedKmh   string // formatted to 2 decimals
	Winner     bool
	MapURL     string // empty when the device has no map artifact
}

type pageData struct {
	TotalKm string
	Rows    []pageRow
}

// The page is a pure function of the leaderboard and artifact paths; no
// business logic lives in the template.
var pageTmpl = template.Must(template.New("leaderboard").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>Fleet Leaderboard</title>
<style>
  :root{
    --card:#0f172aE6;
    --accent:#2563eb;
    --accent2:#7c3aed;
    --muted:#cbd5e1;
    --win:#f59e0b;
  }
  *{box-sizing:border-box}
  body{
    margin:0;
    font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif;
    color:white;
    min-height:100vh;
    background:
      radial-gradient(1200px 600px at -10% -20%, #1e3a8a 0%, transparent 60%),
      radial-gradient(900px 500px at 120% 20%, #4338ca 0%, transparent 60%),
      radial-gradient(700px 500px at 50% 120%, #0ea5e9 0%, transparent 60%),
      linear-gradient(135deg, #0ea5e9 0%, #6366f1 100%);
    display:flex; align-items:flex-start; justify-content:center;
    padding:40px 20px;
  }
  .wrap{width: min(900px, 100%);}
  .total-banner{
    display:flex; align-items:center; justify-content:center;
    gap:12px;
    font-weight:800; letter-spacing:.5px;
    background: linear-gradient(90deg, var(--accent), var(--accent2));
    box-shadow: 0 10px 30px #0006;
    border-radius:16px;
    padding:16px 22px;
    margin:0 0 22px;
    text-transform:uppercase;
  }
  .total-banner .icon{
    display:inline-grid; place-items:center;
    width:40px; height:40px; border-radius:999px; background:#ffffff22; font-size:22px;
  }
  .card{
    background: var(--card);
    border-radius:18px;
    box-shadow: 0 20px 50px #0008;
    padding:18px;
    backdrop-filter: blur(6px);
  }
  .row{
    display:grid;
    grid-template-columns: 64px 1fr 140px 140px;
    gap:12px;
    align-items:center;
    background: #0b1220aa;
    border:1px solid #ffffff14;
    border-radius:12px;
    padding:12px 14px;
    margin-bottom:12px;
  }
  .row.winner{
    border-color: #f59e0b66;
    box-shadow: 0 0 0 2px #f59e0b33 inset;
  }
  .rank{
    display:inline-grid; place-items:center;
    width:44px; height:44px; border-radius:10px;
    font-weight:800; font-size:18px;
    background: linear-gradient(135deg, var(--accent), #1d4ed8);
    box-shadow: inset 0 -3px 10px #0006;
  }
  .device{ font-weight:700; }
  .muted{ color: var(--muted); font-weight:600; text-align:right; }
  .map{
    border-radius:14px; overflow:hidden; margin:10px 0 24px;
    border:1px solid #ffffff14; box-shadow: 0 12px 24px #0007;
  }
  @media (max-width:720px){
    .row{ grid-template-columns: 56px 1fr 88px 88px; }
  }
</style>
</head>
<body>
<div class="wrap">
  <div class="total-banner">
    <div class="icon">&#127942;</div>
    <div>TOTAL DISTANCE:&nbsp; {{.TotalKm}} km</div>
  </div>

  <div class="card">
  {{range .Rows}}
    <div class="row{{if .Winner}} winner{{end}}">
      <div class="rank">#{{.Rank}}</div>
      <div class="device">{{.DeviceName}}</div>
      <div class="muted">{{.DistanceKm}} km</div>
      <div class="muted">{{.SpeedKmh}} km/h</div>
    </div>
    {{if .MapURL}}
    <div class="map">
      <iframe src="{{.MapURL}}" width="100%" height="320"></iframe>
    </div>
    {{end}}
  {{end}}
  </div>
</div>
</body>
</html>
`))
