package cli

import (
	"bufio"
	"context"
	"log"
	"os"
)

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to SecretSpace CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, scanner)
}
