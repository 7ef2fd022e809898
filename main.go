/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/answer19831020/cDNA-primer/cmd"

func main() {
	cmd.Execute()
}
