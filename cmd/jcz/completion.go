package main

// Shell completions ship via cobra's built-in `completion` command.
// Unlike the teacher, which disables it (CompletionOptions.DisableDefaultCmd
// = true), jcz leaves it enabled: `jcz completion bash|zsh|fish|powershell`.
