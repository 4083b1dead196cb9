package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/staranto/gfctlgo/internal/meta"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for gfctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_gfctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "bq cq dash dq pq completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--attrs -a --cache-stats --color -c --filter -f --output -o --rel --sort -s --titles -t --tldr"

    case "$cmd" in
    bq)
      local opts="$common --schema --host --repo -r"
            ;;
        cq)
      local opts="$common --schema --host --repo -r --limit -l --sha"
            ;;
        dash)
      local opts="$common --host --repo -r --limit -l"
            ;;
        dq)
      local opts="$common --schema --bucket --manifest --profile --region"
            ;;
        pq)
      local opts="$common --schema --host --repo -r"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

  COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
  return 0
}

complete -F _gfctl gfctl
`

const zshCompletionScript = `#compdef gfctl

_gfctl() {
  local -a cmds
  cmds=(
    'bq:branch query'
    'cq:commit query'
    'dash:repository dashboard'
    'dq:deployment query'
    'pq:pull request query'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '--cache-stats[log cache statistics]'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--rel[relative timestamps]'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'gfctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    bq|pq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '--host[API host]' \
        '(-r --repo)'{-r,--repo}'[owner/repo]' \
        '::owner/repo:'
      ;;
    cq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '--host[API host]' \
        '(-r --repo)'{-r,--repo}'[owner/repo]' \
        '(-l --limit)'{-l,--limit}'[limit results]:limit' \
        '--sha[single commit details]:sha' \
        '::owner/repo:'
      ;;
    dash)
      _arguments -C \
        $common \
        '--host[API host]' \
        '(-r --repo)'{-r,--repo}'[owner/repo]' \
        '(-l --limit)'{-l,--limit}'[limit results]:limit' \
        '::owner/repo:'
      ;;
    dq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '--bucket[S3 bucket]:bucket' \
        '--manifest[manifest object key]:key' \
        '--profile[AWS profile]:profile' \
        '--region[AWS region]:region'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _gfctl gfctl gfctlgo
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(os.Stdout, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(os.Stdout, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: gfctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "gfctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
