package web

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Volume Lockr</title>
    <style>
        body { font-family: sans-serif; max-width: 640px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0; }
        .card { border: 1px solid #ddd; border-radius: 5px; padding: 10px 15px; margin: 10px 0; }
        .card h3 { margin: 0 0 8px 0; }
        button { background: #007bff; color: white; border: none; padding: 6px 14px; border-radius: 5px; cursor: pointer; }
        button:disabled { background: #999; cursor: default; }
        input { padding: 4px; margin: 3px; width: 60px; }
    </style>
</head>
<body>
    <h1>Volume Lockr</h1>
    <div class="info" id="status">Loading...</div>
    <div>
        <label>Ringer mode:</label>
        <select id="mode" onchange="setMode()">
            <option value="0">silent</option>
            <option value="1">vibrate</option>
            <option value="2">normal</option>
        </select>
        <label><input type="checkbox" id="protected" onchange="setProtected()"> Password protected</label>
    </div>
    <div id="volumes"></div>
    <script>
        async function send(method, url, body) {
            const res = await fetch(url, {
                method: method,
                headers: {'Content-Type': 'application/json'},
                body: body ? JSON.stringify(body) : undefined
            });
            if (!res.ok) {
                const err = await res.json();
                alert(err.error);
            }
            await loadStatus();
        }

        function card(v) {
            const lower = v.lock ? v.lock.lower : v.min;
            const upper = v.lock ? v.lock.upper : v.max;
            const dis = v.enabled ? '' : 'disabled';
            const tdis = v.toggleEnabled ? '' : 'disabled';
            return '<div class="card"><h3>' + v.name + ' (' + v.value + '/' + v.max + ')</h3>' +
                '<input type="number" id="lo-' + v.stream + '" value="' + lower + '" ' + dis + '>' +
                '<input type="number" id="hi-' + v.stream + '" value="' + upper + '" ' + dis + '>' +
                '<button ' + dis + ' onclick="adjust(\'' + v.stream + '\')">Apply range</button> ' +
                (v.locked
                    ? '<button ' + tdis + ' onclick="send(\'DELETE\', \'/api/locks/' + v.stream + '\')">Unlock</button>'
                    : '<button ' + tdis + ' onclick="lock(\'' + v.stream + '\')">Lock</button>') +
                '</div>';
        }

        function bounds(stream) {
            return {
                lower: parseInt(document.getElementById('lo-' + stream).value),
                upper: parseInt(document.getElementById('hi-' + stream).value)
            };
        }

        function adjust(stream) { send('PUT', '/api/volumes/' + stream, bounds(stream)); }
        function lock(stream) { send('POST', '/api/locks/' + stream, bounds(stream)); }
        function setMode() { send('PUT', '/api/mode', {mode: parseInt(document.getElementById('mode').value)}); }
        function setProtected() { send('PUT', '/api/protection', {protected: document.getElementById('protected').checked}); }

        async function loadStatus() {
            const res = await fetch('/api/volumes');
            const data = await res.json();
            let status = 'Enforcing: ' + data.enforcing + ' | Mode: ' + data.modeName;
            if (data.enforcer && data.enforcer.lastError) {
                status += '<br>Error: ' + data.enforcer.lastError;
            }
            document.getElementById('status').innerHTML = status;
            document.getElementById('mode').value = data.mode;
            document.getElementById('protected').checked = data.protected;
            document.getElementById('volumes').innerHTML = data.volumes.map(card).join('');
        }

        loadStatus();
        setInterval(loadStatus, 3000);
    </script>
</body>
</html>`
