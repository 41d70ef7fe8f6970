package style

const GreenColor = "#228B22"
const RedColor = "#800000"
const NeutralColor = "#4682B4"
