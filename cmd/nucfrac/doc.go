/*
Given an indexed, position-sorted BAM produced by a cellranger-style
single-cell pipeline, nucfrac reports for each cell barcode the nuclear
fraction: the proportion of the barcode's exonic reads among its exonic plus
intronic reads. The score helps separate empty droplets and damaged cells
from intact cells during quality filtering.

The input may be given as a BAM path or as a pipeline outs directory, in
which case the conventional BAM and filtered barcode list are located
automatically. For BAMs without per-read region tags, pass a GTF with
--gtf and regions are derived from the gene annotations instead.

Sample usage:
nucfrac \
    --tiles 200 --cores 8 \
    --out nuclear_fraction.tsv \
    /path/to/sample/outs
*/
package main
