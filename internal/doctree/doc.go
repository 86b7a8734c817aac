// Package doctree models a folder of numbered lab notebooks as a tree of
// documents and folders, synthesizes one index document per folder, and
// computes relative links between any two nodes of the tree.
//
// A tree is built once by a Builder (bottom-up, children before parents) and
// then compiled top-down with Folder.CompileIndex. The tree is not safe for
// concurrent use; a build is a single synchronous pass.
//
// Naming convention:
//
//	<base>/
//	  0 - Summary.ipynb        summary of the root folder
//	  1 - Setup.ipynb          document, index 1
//	  2 - Runs/                folder, index 2
//	    1 - Cooldown.ipynb
//	    3 - Scan.ipynb
package doctree
