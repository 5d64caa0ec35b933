package shell

// BashPlugin is the bash plugin source. bash has no preexec hook, so the
// plugin uses a DEBUG trap guarded against prompt re-entry.
const BashPlugin = `# dendro shell plugin — auto-generated, do not edit manually
# Source this file from your ~/.bashrc:
#   source ~/.config/dendro/dendro.plugin.bash

_dendro_log_file="${XDG_DATA_HOME:-$HOME/.local/share}/dendro/activity.log"
_dendro_tracker_file="${XDG_DATA_HOME:-$HOME/.local/share}/dendro/tracker.json"

_dendro_preexec() {
  [ -f "$_dendro_tracker_file" ] || return
  # Skip the trap firing for PROMPT_COMMAND itself.
  [ -n "$COMP_LINE" ] && return
  [ "$BASH_COMMAND" = "$PROMPT_COMMAND" ] && return
  case "$BASH_COMMAND" in
    *dendro\ start*|*dendro\ stop*|*dendro\ watch*) return ;;
  esac
  printf '%s\t%s\n' "$(date +%s)" "$BASH_COMMAND" >> "$_dendro_log_file"
}

trap '_dendro_preexec' DEBUG
`
