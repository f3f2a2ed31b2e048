// Command qcpipe runs the paired-end read QC pipeline: FastQC on raw reads,
// fastp trimming, FastQC on trimmed reads and a MultiQC summary.
package main

import "qcpipe/internal/cli"

func main() {
	cli.Execute()
}
