/*

Command nock evaluates Nock formulas and converts nouns
between text and jam.

    nock eval subject formula

Eval prints the product of formula against subject, both in
bracket syntax. Standard jets are installed.

    nock jam noun

Jam writes the jam of noun to stdout.

    nock cue

Cue reads a jam from stdin and prints the noun.

The environment variables NOCK_ARENA (arena size, such as 1GiB),
NOCK_DEPTH (work stack limit), NOCK_TEST_JETS (verify every jet
call) and NOCK_TIMEOUT (give up on eval after this long) configure
evaluation.

*/
package main
