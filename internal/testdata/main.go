package testdata

// Chart is a trimmed StepMania chart with a tempo change at beat 8.
const Chart = `#TITLE:Test Pattern;
#ARTIST:beatfall;
#OFFSET:-0.500;
#BPMS:0.000=120.000,
8.000=240.000;
#STOPS:;
//---------------dance-single - ----------------
#NOTES:
     dance-single:
     :
     Hard:
     9:
     0.1,0.2,0.3,0.4,0.5:
1000
0100
0010
0001
,
1000
0000
0010
0000
;
//---------------pump-single - ----------------
#NOTES:
     pump-single:
     :
     Easy:
     1:
     0,0,0,0,0:
10000
;
`

func ChartBytes() []byte {
	return []byte(Chart)
}
