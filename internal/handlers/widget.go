package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WidgetConfig is injected into the chat page and drives the client-side
// session logic.
type WidgetConfig struct {
	Endpoint      string `json:"endpoint"`
	MaxMessageLen int    `json:"maxMessageLen"`
	HistoryWindow int    `json:"historyWindow"`
	TypingDelayMs int    `json:"typingDelayMs"`
	Lang          string `json:"lang"`
}

// WidgetHandler serves the embedded browser chat widget. The page is built
// once at startup with the config baked in.
type WidgetHandler struct {
	page []byte
}

func NewWidgetHandler(cfg WidgetConfig) *WidgetHandler {
	blob, _ := json.Marshal(cfg)
	page := strings.Replace(widgetHTML, "__WAGURI_CONFIG__", string(blob), 1)
	return &WidgetHandler{page: []byte(page)}
}

func (h *WidgetHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(h.page)
}

const widgetHTML = `<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Waguri AI</title>
<style>
:root{
  --bg-primary:#12101a;--bg-secondary:#1a1725;--bg-input:#141220;
  --border:#2a2638;--accent:#b86fc6;--accent-hover:#a35bb1;
  --accent-glow:rgba(184,111,198,.15);
  --text-primary:#efeaf4;--text-secondary:#8f8a9c;--text-muted:#5f5a6b;
  --user-bg:linear-gradient(135deg,#b86fc6 0%,#7a5cd1 100%);
  --assistant-bg:#211d2e;--error:#f87171;--error-bg:rgba(248,113,113,.1);
}
*{box-sizing:border-box;margin:0;padding:0}
html,body{height:100%}
body{
  font-family:system-ui,-apple-system,'Segoe UI',sans-serif;
  background:var(--bg-primary);color:var(--text-primary);
  display:flex;flex-direction:column;overflow:hidden;
}
#header{
  padding:14px 20px;background:var(--bg-secondary);
  border-bottom:1px solid var(--border);
  display:flex;align-items:center;gap:12px;flex-shrink:0;
}
#header h1{font-size:16px;font-weight:600}
#header .subtitle{font-size:12px;color:var(--text-muted)}
.header-right{margin-left:auto;display:flex;align-items:center;gap:8px}
.lang-btn,.clear-btn{
  background:none;border:1px solid var(--border);border-radius:8px;
  color:var(--text-secondary);padding:6px 12px;font-size:12px;
  font-family:inherit;cursor:pointer;
}
.lang-btn.active{border-color:var(--accent);color:var(--text-primary)}
.lang-btn:hover,.clear-btn:hover{border-color:var(--text-muted);color:var(--text-primary)}
#messages{
  flex:1;overflow-y:auto;padding:20px;
  display:flex;flex-direction:column;gap:14px;scroll-behavior:smooth;
}
.msg-row{display:flex;animation:msgIn .25s ease-out}
.msg-row.user{justify-content:flex-end}
.msg-bubble{
  max-width:74%;padding:11px 15px;border-radius:14px;
  line-height:1.6;font-size:14px;white-space:pre-wrap;word-wrap:break-word;
}
.msg-row.user .msg-bubble{background:var(--user-bg);color:#fff;border-bottom-right-radius:5px}
.msg-row.assistant .msg-bubble{
  background:var(--assistant-bg);border:1px solid var(--border);
  border-bottom-left-radius:5px;
}
.msg-row.assistant .msg-bubble.error{
  background:var(--error-bg);border-color:rgba(248,113,113,.3);color:var(--error);
}
#notice{
  padding:0 20px;min-height:20px;font-size:12px;color:var(--error);flex-shrink:0;
}
#typing{padding:0 20px;min-height:24px;display:flex;align-items:center;gap:8px;flex-shrink:0}
.typing-dots{display:flex;gap:4px}
.typing-dots span{
  width:6px;height:6px;background:var(--accent);border-radius:50%;
  animation:bounce .6s infinite alternate;opacity:.5;
}
.typing-dots span:nth-child(2){animation-delay:.15s}
.typing-dots span:nth-child(3){animation-delay:.3s}
.typing-label{font-size:12px;color:var(--text-muted)}
#input-area{
  padding:14px 20px 18px;background:var(--bg-secondary);
  border-top:1px solid var(--border);flex-shrink:0;
}
.input-wrapper{
  display:flex;align-items:flex-end;gap:10px;
  background:var(--bg-input);border:1px solid var(--border);
  border-radius:12px;padding:4px 4px 4px 14px;
}
.input-wrapper:focus-within{border-color:var(--accent);box-shadow:0 0 0 3px var(--accent-glow)}
#input{
  flex:1;padding:9px 0;border:none;font-size:14px;
  background:transparent;color:var(--text-primary);
  outline:none;resize:none;max-height:110px;font-family:inherit;line-height:1.5;
}
#send{
  width:38px;height:38px;background:var(--accent);color:#fff;
  border:none;border-radius:9px;cursor:pointer;font-size:15px;
}
#send:hover{background:var(--accent-hover)}
#send:disabled{opacity:.35;cursor:not-allowed}
@keyframes msgIn{from{opacity:0;transform:translateY(6px)}to{opacity:1;transform:translateY(0)}}
@keyframes bounce{from{transform:translateY(0)}to{transform:translateY(-4px);opacity:1}}
@media(max-width:640px){#messages{padding:14px}.msg-bubble{max-width:86%}}
</style>
</head>
<body>
<div id="header">
  <div><h1>Waguri AI</h1><span class="subtitle">Kōhai assistant</span></div>
  <div class="header-right">
    <button class="lang-btn" id="lang-id" data-lang="id">ID</button>
    <button class="lang-btn" id="lang-en" data-lang="en">EN</button>
    <button class="clear-btn" id="clear"></button>
  </div>
</div>
<div id="messages"></div>
<div id="typing"></div>
<div id="notice"></div>
<div id="input-area">
  <div class="input-wrapper">
    <textarea id="input" rows="1"></textarea>
    <button id="send" aria-label="Send">&#10148;</button>
  </div>
</div>
<script>
const CONFIG=__WAGURI_CONFIG__;
const I18N={
  id:{
    greeting:"Halo! Aku Waguri. Ada yang bisa kubantu hari ini?",
    placeholder:"Tulis pesanmu di sini...",
    failure:"Maaf, terjadi gangguan saat menghubungi server. Coba kirim lagi ya.",
    tooLong:"Pesan terlalu panjang (maksimal "+CONFIG.maxMessageLen+" karakter).",
    typing:"Waguri sedang mengetik...",
    clear:"Hapus obrolan"
  },
  en:{
    greeting:"Hi! I'm Waguri. How can I help you today?",
    placeholder:"Type your message here...",
    failure:"Sorry, something went wrong while contacting the server. Please try again.",
    tooLong:"Message is too long (max "+CONFIG.maxMessageLen+" characters).",
    typing:"Waguri is typing...",
    clear:"Clear chat"
  }
};
const msgsEl=document.getElementById("messages"),
      input=document.getElementById("input"),
      sendBtn=document.getElementById("send"),
      clearBtn=document.getElementById("clear"),
      typingEl=document.getElementById("typing"),
      noticeEl=document.getElementById("notice");
let lang=CONFIG.lang in I18N?CONFIG.lang:"id";
let log=[];       // ordered, append-only message log
let busy=false;   // at most one turn in flight
let typingTimer=null;

function t(){return I18N[lang]}
function render(msg){
  const row=document.createElement("div");
  row.className="msg-row "+msg.role;
  const bubble=document.createElement("div");
  bubble.className="msg-bubble"+(msg.err?" error":"");
  bubble.textContent=msg.content;
  row.appendChild(bubble);
  msgsEl.appendChild(row);
  msgsEl.scrollTop=msgsEl.scrollHeight;
}
function append(msg){log.push(msg);render(msg)}
function tail(){return log.slice(-CONFIG.historyWindow).map(m=>({role:m.role,content:m.content}))}
function showTyping(){
  typingTimer=setTimeout(()=>{
    typingEl.innerHTML='<div class="typing-dots"><span></span><span></span><span></span></div><span class="typing-label">'+t().typing+'</span>';
  },CONFIG.typingDelayMs);
}
function hideTyping(){clearTimeout(typingTimer);typingTimer=null;typingEl.innerHTML=""}
function setBusy(b){busy=b;sendBtn.disabled=b}
function applyLang(){
  input.placeholder=t().placeholder;
  clearBtn.textContent=t().clear;
  document.querySelectorAll(".lang-btn").forEach(b=>{
    b.classList.toggle("active",b.dataset.lang===lang);
  });
}
async function send(){
  if(busy)return;
  const text=input.value.trim();
  noticeEl.textContent="";
  if(!text)return;
  if([...text].length>CONFIG.maxMessageLen){noticeEl.textContent=t().tooLong;return}
  setBusy(true);
  input.value="";input.style.height="auto";
  append({role:"user",content:text});
  showTyping();
  try{
    const r=await fetch(CONFIG.endpoint,{
      method:"POST",
      headers:{"Content-Type":"application/json"},
      body:JSON.stringify({message:text,history:tail(),lang:lang})
    });
    if(!r.ok)throw new Error("status "+r.status);
    const d=await r.json();
    if(typeof d.response!=="string"||!d.response)throw new Error("malformed body");
    append({role:"assistant",content:d.response});
  }catch(e){
    append({role:"assistant",content:t().failure,err:true});
  }
  hideTyping();
  setBusy(false);
  input.focus();
}
function clearChat(){
  log=[];msgsEl.innerHTML="";noticeEl.textContent="";
  append({role:"assistant",content:t().greeting});
}
sendBtn.onclick=send;
input.onkeydown=e=>{if(e.key==="Enter"&&!e.shiftKey){e.preventDefault();send()}};
input.oninput=()=>{input.style.height="auto";input.style.height=Math.min(input.scrollHeight,110)+"px"};
clearBtn.onclick=clearChat;
document.querySelectorAll(".lang-btn").forEach(b=>{
  b.onclick=()=>{lang=b.dataset.lang;applyLang()};
});
applyLang();
render({role:"assistant",content:t().greeting}); // on-load greeting is presentation only
input.focus();
</script>
</body>
</html>`
