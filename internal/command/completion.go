// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stkit/internal/meta"
)

const bashCompletionScript = `# bash completion for stkit
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_stkit()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "read write ls purge ip open escape typeof reportid push pull completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--color -c --filter -f --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
        read)
            local opts="--tldr"
            ;;
        write)
            local opts="--data -d --tldr"
            ;;
        ls)
            local opts="$common --long -l"
            ;;
        purge)
            local opts="$common --hours -H"
            ;;
        ip)
            local opts="$common --internal -i --external -e --url --json-path --timeout"
            ;;
        open)
            local opts="--platform -p --tldr"
            ;;
        escape)
            local opts="--times -n --tldr"
            ;;
        typeof)
            local opts="$common --is"
            ;;
        reportid)
            local opts="--count -n --decode --tldr"
            ;;
        push|pull)
            local opts="$common --bucket -b --prefix -p --endpoint"
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

    if [[ "$prev" == "--platform" || "$prev" == "-p" ]] && [[ "$cmd" == "open" ]]; then
        COMPREPLY=( $(compgen -W "linux darwin windows" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # read and write take a path relative to the root directory.
    if [[ "$cmd" == "read" || "$cmd" == "write" ]]; then
        COMPREPLY=( $(cd "${STKIT_ROOT:-.streamlit}" 2>/dev/null && compgen -f -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _stkit stkit
`

const zshCompletionScript = `#compdef stkit

_stkit() {
  local -a cmds
  cmds=(
    'read:print a file from the root directory'
    'write:write stdin to a file in the root directory'
    'ls:list files in the root directory'
    'purge:delete old files from the root directory'
    'ip:show internal and external IP addresses'
    'open:open a URL in the default browser'
    'escape:escape markdown metacharacters'
    'typeof:show the runtime type of literal values'
    'reportid:generate report IDs'
    'push:upload the root directory to S3'
    'pull:download the root directory from S3'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'stkit commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    read)
      _arguments -C \
        '--tldr[show tldr page]' \
        ':path:_files -W ${STKIT_ROOT:-.streamlit}'
      ;;
    write)
      _arguments -C \
        '(-d --data)'{-d,--data}'[data to write]:data' \
        '--tldr[show tldr page]' \
        ':path:_files -W ${STKIT_ROOT:-.streamlit}'
      ;;
    ls)
      _arguments -C \
        $common \
        '(-l --long)'{-l,--long}'[long listing]'
      ;;
    purge)
      _arguments -C \
        $common \
        '(-H --hours)'{-H,--hours}'[age in hours]:hours'
      ;;
    ip)
      _arguments -C \
        $common \
        '(-i --internal)'{-i,--internal}'[internal address]' \
        '(-e --external)'{-e,--external}'[external address]' \
        '--url[IP echo service]:url' \
        '--json-path[gjson path]:path' \
        '--timeout[request timeout]:duration'
      ;;
    open)
      _arguments -C \
        '(-p --platform)'{-p,--platform}'[platform]:platform:(linux darwin windows)' \
        '--tldr[show tldr page]' \
        ':url'
      ;;
    escape)
      _arguments -C \
        '(-n --times)'{-n,--times}'[repeat]:times' \
        '--tldr[show tldr page]' \
        '*:text'
      ;;
    typeof)
      _arguments -C \
        $common \
        '--is[type name]:type' \
        '*:value'
      ;;
    reportid)
      _arguments -C \
        '(-n --count)'{-n,--count}'[number of IDs]:count' \
        '--decode[report ID]:id' \
        '--tldr[show tldr page]'
      ;;
    push|pull)
      _arguments -C \
        $common \
        '(-b --bucket)'{-b,--bucket}'[bucket]:bucket' \
        '(-p --prefix)'{-p,--prefix}'[key prefix]:prefix' \
        '--endpoint[endpoint URL]:url'
      ;;
    completion)
      _arguments -C '1:shell:(bash zsh)'
      ;;
  esac
}

compdef _stkit stkit
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := Stdout(cmd)

	shell := cmd.Args().First()
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		return fmt.Errorf("usage: stkit completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "stkit completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
