package main

import "github.com/BaisilG/fbmeshd/cmd"

func main() {
	cmd.Execute()
}
