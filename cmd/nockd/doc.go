/*

Command nockd serves a Nock kernel over HTTP.

It boots the kernel whose jam is in the file named by KERNEL,
restores the latest checkpoint, and answers requests:

    POST /poke   body: jam of an event   reply: jam of the effects
    POST /peek   body: jam of a path     reply: jam of the value
    POST /save   write a checkpoint now
    GET  /event  the event counter
    GET  /debug/vars  counters, gauges and latency histograms

Checkpoints go to the database at DATABASE_URL if it is set
(postgres:// for Postgres, otherwise a SQLite file), and to
SNAPSHOT_DIR otherwise. SAVE_EVERY sets how many pokes pass
between automatic checkpoints.

Other configuration: LISTEN (default :8080), NOCK_ARENA,
NOCK_DEPTH, NOCK_MEMO, NOCK_TEST_JETS, NOCK_SLOG_RATE.

*/
package main
