// Package main provides the entry point for the image-augmentor CLI.
//
// image-augmentor writes randomized crops of every image in a directory,
// resized to a fixed output size, optionally skipping perceptual duplicates.
//
// Usage:
//
//	image-augmentor --input-dir photos --output-dir out --crops 4
//	image-augmentor init
//
// See --help for all available options.
package main

func main() {
	Execute()
}
