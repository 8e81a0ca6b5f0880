package shell

import "io"

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "new [seed] - deal a new game from a seed (default 0)\n")
	io.WriteString(w, "load <path> - load a position file\n")
	io.WriteString(w, "export [path] - print the position, or write it to a file\n")
	io.WriteString(w, "show - display the current position\n")
	io.WriteString(w, "moves - list legal moves\n")
	io.WriteString(w, "play <n> - play move number n from the last 'moves' listing\n")
	io.WriteString(w, "solve [iterations] [weight] - search for a solution in the background\n")
	io.WriteString(w, "stop - cancel a running solve, keeping the best found so far\n")
	io.WriteString(w, "solution - reprint the last solution\n")
	io.WriteString(w, "set <iterations|weight> <value> - change solver defaults\n")
	io.WriteString(w, "autosolve <games> [threads] - solve a batch of seeded deals and print stats\n")
	io.WriteString(w, "exit - quit\n")
}
