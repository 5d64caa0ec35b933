package shell

// ZshPlugin is the zsh plugin source. It installs a preexec hook that
// logs every command with an epoch timestamp to the dendro activity log,
// but only while a tracking session is active.
const ZshPlugin = `# dendro shell plugin — auto-generated, do not edit manually
# Source this file from your ~/.zshrc:
#   source ~/.config/dendro/dendro.plugin.zsh

_dendro_log_file="${XDG_DATA_HOME:-$HOME/.local/share}/dendro/activity.log"
_dendro_tracker_file="${XDG_DATA_HOME:-$HOME/.local/share}/dendro/tracker.json"

_dendro_preexec() {
  # Only log while a session is active.
  [[ -f "$_dendro_tracker_file" ]] || return
  local cmd="$1"
  # Skip dendro start/stop noise.
  [[ "$cmd" =~ ^[[:space:]]*(.*\/)?dendro[[:space:]]+(start|stop|watch) ]] && return
  printf '%s\t%s\n' "$(date +%s)" "$cmd" >> "$_dendro_log_file"
}

autoload -Uz add-zsh-hook
add-zsh-hook preexec _dendro_preexec
`
